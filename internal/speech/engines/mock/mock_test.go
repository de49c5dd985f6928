package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/speakhost/internal/speech"
)

func TestSynthesizeDurationScalesWithRate(t *testing.T) {
	e := New()
	e.PerCharacter = 20 * time.Millisecond

	slow, err := e.Synthesize(context.Background(), speech.Utterance{Text: "ab", Rate: 0.5})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	fast, err := e.Synthesize(context.Background(), speech.Utterance{Text: "ab", Rate: 2})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if slow.Duration() != 80*time.Millisecond {
		t.Errorf("slow duration = %v, want 80ms", slow.Duration())
	}
	if fast.Duration() != 20*time.Millisecond {
		t.Errorf("fast duration = %v, want 20ms", fast.Duration())
	}
	if len(e.Calls()) != 2 {
		t.Errorf("Calls() = %d, want 2", len(e.Calls()))
	}
}

func TestSynthesizeFailures(t *testing.T) {
	e := New()
	boom := errors.New("boom")
	e.FailOn("x", boom)

	if _, err := e.Synthesize(context.Background(), speech.Utterance{Text: "x", Rate: 1}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if _, err := e.Synthesize(context.Background(), speech.Utterance{}); !errors.Is(err, speech.ErrEmptyText) {
		t.Errorf("error = %v, want ErrEmptyText", err)
	}
}

func TestSynthesizeHonorsContext(t *testing.T) {
	e := New()
	e.Delay = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Synthesize(ctx, speech.Utterance{Text: "a", Rate: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestVoices(t *testing.T) {
	e := New()
	voices, err := e.Voices(context.Background())
	if err != nil || len(voices) != 4 {
		t.Fatalf("Voices() = %v, %v", voices, err)
	}

	e.SetVoices(nil)
	voices, _ = e.Voices(context.Background())
	if len(voices) != 0 {
		t.Errorf("expected no voices, got %d", len(voices))
	}

	e.FailVoices(errors.New("not loaded"))
	if _, err := e.Voices(context.Background()); err == nil {
		t.Error("expected voices error")
	}
}
