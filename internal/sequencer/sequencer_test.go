package sequencer

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/speakhost/internal/segment"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// recorder is both the Speaker and the Highlighter in these tests, so it
// can check the highlight state at the moment each utterance is spoken.
type recorder struct {
	mu       sync.Mutex
	lit      map[int]bool
	maxLit   int
	litOrder []int
	spoken   []speech.Utterance
	litWhile []int // which index was lit while each utterance played

	speaking    int
	maxSpeaking int

	delay  time.Duration
	failOn string
}

func newRecorder(delay time.Duration) *recorder {
	return &recorder{lit: make(map[int]bool), delay: delay}
}

func (r *recorder) Highlight(_ context.Context, index int, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		r.lit[index] = true
		r.litOrder = append(r.litOrder, index)
	} else {
		delete(r.lit, index)
	}
	if len(r.lit) > r.maxLit {
		r.maxLit = len(r.lit)
	}
}

func (r *recorder) Speak(ctx context.Context, u speech.Utterance) error {
	r.mu.Lock()
	r.spoken = append(r.spoken, u)
	lit := -1
	for i := range r.lit {
		lit = i
	}
	r.litWhile = append(r.litWhile, lit)
	r.speaking++
	if r.speaking > r.maxSpeaking {
		r.maxSpeaking = r.speaking
	}
	fail := r.failOn != "" && u.Text == r.failOn
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.speaking--
		r.mu.Unlock()
	}()

	if fail {
		return errors.New("speech engine exploded")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.delay):
		return nil
	}
}

func (r *recorder) litCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lit)
}

func buildSymbols(t *testing.T, text string, enumerate bool) []Symbol {
	t.Helper()
	texts := segment.Segment(text, enumerate)
	utterances := make([]*speech.Utterance, len(texts))
	for i, s := range texts {
		rate, pitch := speech.Prosody(s)
		utterances[i] = &speech.Utterance{Text: speech.Pronounce(s), Rate: rate, Pitch: pitch}
	}
	symbols, err := NewSymbols(texts, utterances)
	if err != nil {
		t.Fatalf("NewSymbols failed: %v", err)
	}
	return symbols
}

func TestRunScenarioABC(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	seq := New(rec, rec, Config{Rounds: 2})

	if err := seq.Run(context.Background(), buildSymbols(t, "abc", true)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var texts []string
	for _, u := range rec.spoken {
		texts = append(texts, u.Text)
		if u.Rate != 0.8 || u.Pitch != 0.65 {
			t.Errorf("utterance %q has rate %v pitch %v, want 0.8/0.65", u.Text, u.Rate, u.Pitch)
		}
	}
	if want := []string{"a", "b", "c", "a", "b", "c"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("spoken = %v, want %v", texts, want)
	}
	if want := []int{0, 1, 2, 0, 1, 2}; !reflect.DeepEqual(rec.litOrder, want) {
		t.Errorf("highlight order = %v, want %v", rec.litOrder, want)
	}
	if want := []int{0, 1, 2, 0, 1, 2}; !reflect.DeepEqual(rec.litWhile, want) {
		t.Errorf("lit during speech = %v, want %v", rec.litWhile, want)
	}
	if rec.maxLit != 1 {
		t.Errorf("max simultaneous highlights = %d, want 1", rec.maxLit)
	}
	if rec.litCount() != 0 {
		t.Error("a highlight was left on after the loop ended")
	}
}

func TestRunWholeWord(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	seq := New(rec, rec, Config{Rounds: 3})

	_ = seq.Run(context.Background(), buildSymbols(t, "example.com", false))
	if len(rec.spoken) != 3 {
		t.Fatalf("spoke %d times, want 3", len(rec.spoken))
	}
	for _, u := range rec.spoken {
		if u.Text != "example.com" {
			t.Errorf("spoken %q, want the whole host", u.Text)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	rec := newRecorder(0)
	seq := New(rec, rec, DefaultConfig())

	done := make(chan struct{})
	go func() {
		_ = seq.Run(context.Background(), nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with no symbols should return immediately")
	}
	if len(rec.litOrder) != 0 {
		t.Error("nothing should be highlighted")
	}
}

func TestRunPlaceholderForSilentSymbols(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	seq := New(rec, rec, Config{Placeholder: 30 * time.Millisecond, Rounds: 1})

	symbols := buildSymbols(t, "ab", true)
	symbols[0].Utterance = nil

	start := time.Now()
	_ = seq.Run(context.Background(), symbols)
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("loop took %v, placeholder should hold at least 30ms", elapsed)
	}
	if len(rec.spoken) != 1 || rec.spoken[0].Text != "b" {
		t.Errorf("spoken = %v, want only b", rec.spoken)
	}
	if !reflect.DeepEqual(rec.litOrder, []int{0, 1}) {
		t.Errorf("silent symbol should still be highlighted, order = %v", rec.litOrder)
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	rec.failOn = "b"
	seq := New(rec, rec, Config{Placeholder: time.Millisecond, Rounds: 2})

	_ = seq.Run(context.Background(), buildSymbols(t, "abc", true))

	if len(rec.spoken) != 6 {
		t.Errorf("spoke %d times, want 6 (failures must not stop the loop)", len(rec.spoken))
	}
	if rec.litCount() != 0 {
		t.Error("failed step left its highlight on")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := newRecorder(time.Hour)
	seq := New(rec, rec, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- seq.Run(ctx, buildSymbols(t, "abc", true)) }()

	time.Sleep(20 * time.Millisecond)
	if rec.litCount() != 1 {
		t.Errorf("expected exactly one highlight while speaking, got %d", rec.litCount())
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if rec.litCount() != 0 {
		t.Error("highlight left on after cancel")
	}
}

func TestNewSymbolsMismatch(t *testing.T) {
	if _, err := NewSymbols([]string{"a", "b"}, []*speech.Utterance{nil}); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
	symbols, err := NewSymbols([]string{"x"}, []*speech.Utterance{nil})
	if err != nil || symbols[0].Index != 0 || symbols[0].Text != "x" {
		t.Errorf("NewSymbols = %+v, %v", symbols, err)
	}
}

func TestHighlighterFunc(t *testing.T) {
	var got []bool
	h := HighlighterFunc(func(_ context.Context, _ int, on bool) { got = append(got, on) })
	h.Highlight(context.Background(), 0, true)
	h.Highlight(context.Background(), 0, false)
	if !reflect.DeepEqual(got, []bool{true, false}) {
		t.Errorf("got %v", got)
	}
}
