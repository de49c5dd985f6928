package ui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// highlightMsg reports that a cell was lit or cleared by the loop of
// generation gen.
type highlightMsg struct {
	gen   int64
	index int
	on    bool
}

// channelHighlighter hands highlight events from the playback loop to the
// Bubble Tea program. Events are tagged with the generation that was current
// when they were sent, so the model can drop the ones from a loop it has
// already replaced.
type channelHighlighter struct {
	ch  chan highlightMsg
	gen atomic.Int64
}

func newChannelHighlighter() *channelHighlighter {
	return &channelHighlighter{ch: make(chan highlightMsg)}
}

// Highlight blocks until the program reads the event or ctx is done.
func (h *channelHighlighter) Highlight(ctx context.Context, index int, on bool) {
	msg := highlightMsg{gen: h.gen.Load(), index: index, on: on}
	select {
	case h.ch <- msg:
	case <-ctx.Done():
	}
}

// next starts a new generation and returns it. Call it only while no loop is
// running.
func (h *channelHighlighter) next() int64 {
	return h.gen.Add(1)
}

func (h *channelHighlighter) current() int64 {
	return h.gen.Load()
}

// waitForHighlight reads the next event. The model issues it again after
// every event so exactly one reader is outstanding.
func waitForHighlight(ctx context.Context, h *channelHighlighter) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-h.ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
