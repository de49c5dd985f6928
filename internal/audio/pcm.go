package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// BytesPerSample is the size of one 16-bit sample.
const BytesPerSample = 2

// ErrEmptyAudio is returned when there is nothing to play or convert.
var ErrEmptyAudio = errors.New("audio data is empty")

// Format describes signed 16-bit little endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// DefaultFormat is the format the player opens the device with.
var DefaultFormat = Format{SampleRate: 44100, Channels: 1}

// Validate checks that the format can be played.
func (f Format) Validate() error {
	if f.SampleRate < 8000 || f.SampleRate > 192000 {
		return fmt.Errorf("sample rate must be between 8000 and 192000 Hz, got %d", f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", f.Channels)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// PCM is a block of signed 16-bit little endian samples.
type PCM struct {
	Data   []byte
	Format Format
}

// Duration returns how long the PCM plays for.
func (p *PCM) Duration() time.Duration {
	if p == nil || p.Format.SampleRate == 0 || p.Format.Channels == 0 {
		return 0
	}
	frames := len(p.Data) / (p.Format.Channels * BytesPerSample)
	return time.Duration(frames) * time.Second / time.Duration(p.Format.SampleRate)
}

// Silence returns d worth of silent PCM in format f.
func Silence(f Format, d time.Duration) *PCM {
	frames := int(d * time.Duration(f.SampleRate) / time.Second)
	return &PCM{
		Data:   make([]byte, frames*f.Channels*BytesPerSample),
		Format: f,
	}
}

// Samples decodes the PCM into int16 samples, interleaved by channel.
func (p *PCM) Samples() []int16 {
	out := make([]int16, len(p.Data)/BytesPerSample)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(p.Data[i*BytesPerSample:]))
	}
	return out
}

// FromSamples encodes interleaved int16 samples as PCM.
func FromSamples(samples []int16, f Format) *PCM {
	data := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*BytesPerSample:], uint16(s))
	}
	return &PCM{Data: data, Format: f}
}
