package audio

import "fmt"

// Convert returns pcm in the target format, remixing channels and
// resampling linearly as needed. The input is not modified.
func Convert(pcm *PCM, to Format) (*PCM, error) {
	if pcm == nil || len(pcm.Data) == 0 {
		return nil, ErrEmptyAudio
	}
	if err := pcm.Format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source format: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target format: %w", err)
	}
	if pcm.Format == to {
		return pcm, nil
	}

	samples := remix(pcm.Samples(), pcm.Format.Channels, to.Channels)
	samples = resample(samples, to.Channels, pcm.Format.SampleRate, to.SampleRate)
	return FromSamples(samples, to), nil
}

// remix converts interleaved samples between mono and stereo.
func remix(in []int16, from, to int) []int16 {
	if from == to {
		return in
	}
	frames := len(in) / from
	out := make([]int16, frames*to)
	for i := 0; i < frames; i++ {
		switch {
		case from == 2 && to == 1:
			out[i] = int16((int32(in[2*i]) + int32(in[2*i+1])) / 2)
		case from == 1 && to == 2:
			out[2*i] = in[i]
			out[2*i+1] = in[i]
		}
	}
	return out
}

// resample converts the sample rate with linear interpolation.
func resample(in []int16, channels, from, to int) []int16 {
	if from == to || len(in) == 0 {
		return in
	}
	inFrames := len(in) / channels
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]int16, outFrames*channels)

	step := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		for c := 0; c < channels; c++ {
			a := float64(in[j*channels+c])
			b := a
			if j+1 < inFrames {
				b = float64(in[(j+1)*channels+c])
			}
			out[i*channels+c] = int16(a + (b-a)*frac)
		}
	}
	return out
}
