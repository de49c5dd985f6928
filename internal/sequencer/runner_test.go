package sequencer

import (
	"context"
	"testing"
	"time"
)

func TestRunnerRestartNeverOverlaps(t *testing.T) {
	rec := newRecorder(5 * time.Millisecond)
	r := NewRunner(context.Background(), New(rec, rec, DefaultConfig()))

	g1 := r.Start(buildSymbols(t, "abc", true))
	time.Sleep(12 * time.Millisecond)
	g2 := r.Start(buildSymbols(t, "xyz", true))
	time.Sleep(12 * time.Millisecond)
	g3 := r.Start(buildSymbols(t, "host", false))
	time.Sleep(12 * time.Millisecond)
	r.Stop()

	if !(g1 < g2 && g2 < g3) {
		t.Errorf("generations not increasing: %d %d %d", g1, g2, g3)
	}
	if r.Generation() != g3 {
		t.Errorf("Generation() = %d, want %d", r.Generation(), g3)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.maxSpeaking != 1 {
		t.Errorf("max concurrent utterances = %d, want 1", rec.maxSpeaking)
	}
	if rec.maxLit != 1 {
		t.Errorf("max simultaneous highlights = %d, want 1", rec.maxLit)
	}
	if len(rec.lit) != 0 {
		t.Error("highlight left on after Stop")
	}
}

func TestRunnerStopAndRunning(t *testing.T) {
	rec := newRecorder(time.Hour)
	r := NewRunner(context.Background(), New(rec, rec, DefaultConfig()))

	if r.Running() {
		t.Error("new runner should not be running")
	}
	r.Stop() // no-op without a loop

	r.Start(buildSymbols(t, "a", true))
	if !r.Running() {
		t.Error("runner should be running after Start")
	}

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	if r.Running() {
		t.Error("runner still running after Stop")
	}
}

func TestRunnerWaitForRounds(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	r := NewRunner(context.Background(), New(rec, rec, Config{Rounds: 1}))

	r.Start(buildSymbols(t, "ab", true))
	r.Wait()

	if r.Running() {
		t.Error("loop should have finished after one round")
	}
	if len(rec.spoken) != 2 {
		t.Errorf("spoke %d times, want 2", len(rec.spoken))
	}
}

func TestRunnerParentCancel(t *testing.T) {
	rec := newRecorder(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(ctx, New(rec, rec, DefaultConfig()))

	r.Start(buildSymbols(t, "a", true))
	cancel()

	waited := make(chan struct{})
	go func() {
		r.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("loop did not end with its parent context")
	}
}

func TestRunnerDone(t *testing.T) {
	rec := newRecorder(time.Millisecond)
	r := NewRunner(context.Background(), New(rec, rec, Config{Rounds: 2}))

	if r.Done() != nil {
		t.Error("Done should be nil before the first Start")
	}

	r.Start(buildSymbols(t, "ab", true))
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after the rounds finished")
	}

	r.Start(buildSymbols(t, "ab", false))
	first := r.Done()
	r.Start(buildSymbols(t, "cd", false))
	select {
	case <-first:
	default:
		t.Error("a replaced loop's Done channel should be closed")
	}
}
