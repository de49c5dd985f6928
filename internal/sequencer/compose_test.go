package sequencer

import (
	"context"
	"testing"

	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/dgnsrekt/speakhost/internal/speech/engines/mock"
)

func TestCompose(t *testing.T) {
	engine := mock.New()

	tests := []struct {
		name      string
		host      string
		enumerate bool
		random    bool
		want      []string
	}{
		{"whole host", "example.com", false, false, []string{"example.com"}},
		{"enumerated", "a.b", true, false, []string{"a", "dot", "b"}},
		{"random voices", "ab", true, true, []string{"a", "b"}},
		{"empty", "", true, false, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := speech.NewBuilder(engine, speech.BuilderConfig{RandomVoices: tc.random, Seed: 7})
			if err != nil {
				t.Fatal(err)
			}

			symbols := Compose(context.Background(), b, tc.host, tc.enumerate)
			if len(symbols) != len(tc.want) {
				t.Fatalf("got %d symbols, want %d", len(symbols), len(tc.want))
			}
			for i, sym := range symbols {
				if sym.Index != i {
					t.Errorf("symbol %d has index %d", i, sym.Index)
				}
				if sym.Utterance == nil {
					t.Fatalf("symbol %d has no utterance", i)
				}
				if sym.Utterance.Text != tc.want[i] {
					t.Errorf("symbol %d speaks %q, want %q", i, sym.Utterance.Text, tc.want[i])
				}
				if tc.random && sym.Utterance.Voice == nil {
					t.Errorf("symbol %d has no voice with random voices on", i)
				}
				if !tc.random && sym.Utterance.Voice != nil {
					t.Errorf("symbol %d has a voice with random voices off", i)
				}
			}
		})
	}
}
