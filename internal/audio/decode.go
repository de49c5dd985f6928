package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// DecodeWAV decodes a RIFF/WAVE file into 16-bit PCM.
func DecodeWAV(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to decode wav: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, ErrEmptyAudio
	}
	return fromIntBuffer(buf)
}

func fromIntBuffer(buf *goaudio.IntBuffer) (*PCM, error) {
	if buf.Format == nil {
		return nil, errors.New("wav has no format chunk")
	}
	f := Format{SampleRate: buf.Format.SampleRate, Channels: buf.Format.NumChannels}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	shift := buf.SourceBitDepth - 16
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch {
		case buf.SourceBitDepth == 8:
			// 8-bit wav is unsigned.
			samples[i] = int16((v - 128) << 8)
		case shift > 0:
			samples[i] = int16(v >> shift)
		default:
			samples[i] = int16(v)
		}
	}
	return FromSamples(samples, f), nil
}

// DecodeMP3 decodes an MP3 stream. go-mp3 always yields 16-bit stereo.
func DecodeMP3(data []byte) (*PCM, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to open mp3 stream: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("unable to decode mp3: %w", err)
	}
	if len(pcm) == 0 {
		return nil, ErrEmptyAudio
	}
	return &PCM{
		Data:   pcm,
		Format: Format{SampleRate: d.SampleRate(), Channels: 2},
	}, nil
}
