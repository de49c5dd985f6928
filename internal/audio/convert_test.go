package audio

import (
	"testing"
	"time"
)

func TestPCMDuration(t *testing.T) {
	p := Silence(Format{SampleRate: 22050, Channels: 1}, time.Second)
	if got := len(p.Data); got != 44100 {
		t.Fatalf("silence length = %d, want 44100", got)
	}
	if d := p.Duration(); d != time.Second {
		t.Errorf("Duration() = %v, want 1s", d)
	}

	var nilPCM *PCM
	if d := nilPCM.Duration(); d != 0 {
		t.Errorf("nil Duration() = %v, want 0", d)
	}
}

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		expectErr bool
	}{
		{"mono 22050", Format{22050, 1}, false},
		{"stereo 48000", Format{48000, 2}, false},
		{"too slow", Format{4000, 1}, true},
		{"surround", Format{44100, 6}, true},
		{"zero", Format{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestConvertSameFormat(t *testing.T) {
	in := FromSamples([]int16{1, 2, 3}, Format{44100, 1})
	out, err := Convert(in, Format{44100, 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out != in {
		t.Error("expected the input to be returned unchanged")
	}
}

func TestConvertStereoToMono(t *testing.T) {
	in := FromSamples([]int16{100, 300, -200, 0}, Format{44100, 2})
	out, err := Convert(in, Format{44100, 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	got := out.Samples()
	want := []int16{200, -100}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConvertMonoToStereo(t *testing.T) {
	in := FromSamples([]int16{7, -7}, Format{44100, 1})
	out, err := Convert(in, Format{44100, 2})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	got := out.Samples()
	want := []int16{7, 7, -7, -7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConvertResamplePreservesDuration(t *testing.T) {
	in := Silence(Format{22050, 1}, 500*time.Millisecond)
	out, err := Convert(in, Format{44100, 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Duration() != in.Duration() {
		t.Errorf("duration changed: %v -> %v", in.Duration(), out.Duration())
	}
	if out.Format != (Format{44100, 1}) {
		t.Errorf("format = %v", out.Format)
	}
}

func TestConvertInterpolates(t *testing.T) {
	in := FromSamples([]int16{0, 100}, Format{8000, 1})
	out, err := Convert(in, Format{16000, 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	got := out.Samples()
	if len(got) != 4 {
		t.Fatalf("got %d samples, want 4", len(got))
	}
	if got[0] != 0 || got[1] != 50 || got[2] != 100 {
		t.Errorf("unexpected samples %v", got)
	}
}

func TestConvertEmpty(t *testing.T) {
	if _, err := Convert(nil, DefaultFormat); err != ErrEmptyAudio {
		t.Errorf("Convert(nil) error = %v, want ErrEmptyAudio", err)
	}
	if _, err := Convert(&PCM{Format: DefaultFormat}, DefaultFormat); err != ErrEmptyAudio {
		t.Errorf("Convert(empty) error = %v, want ErrEmptyAudio", err)
	}
}
