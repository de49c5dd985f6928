package sequencer

import (
	"context"
	"sync"
)

// Runner owns at most one playback loop. Starting a new loop cancels the
// previous one and waits for it to exit, so re-rendering never leaves two
// loops speaking over each other.
type Runner struct {
	seq    *Sequencer
	parent context.Context

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	gen    int
}

// NewRunner creates a Runner whose loops end when parent is done.
func NewRunner(parent context.Context, seq *Sequencer) *Runner {
	return &Runner{seq: seq, parent: parent}
}

// Start stops the current loop, if any, and starts one over symbols. It
// returns the new loop's generation, which increases with every Start.
func (r *Runner) Start(symbols []Symbol) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.gen++

	ctx, cancel := context.WithCancel(r.parent)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		defer cancel()
		_ = r.seq.Run(ctx, symbols)
	}()
	return r.gen
}

// Stop cancels the current loop and waits for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Wait blocks until the current loop exits on its own or is stopped.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Done returns a channel that is closed when the most recent loop exits,
// whether it finished its rounds or was stopped. It is nil before the first
// Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Running reports whether a loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Generation returns the generation of the most recent Start.
func (r *Runner) Generation() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}
