package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dgnsrekt/speakhost/internal/sequencer"
)

// plainHighlighter writes one line per lit symbol, with the symbol in
// brackets and the rest of the host around it.
type plainHighlighter struct {
	mu      sync.Mutex
	w       io.Writer
	symbols []sequencer.Symbol
}

func (h *plainHighlighter) Highlight(_ context.Context, index int, on bool) {
	if !on {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = fmt.Fprintln(h.w, plainLine(h.symbols, index))
}

func plainLine(symbols []sequencer.Symbol, lit int) string {
	var b strings.Builder
	for _, s := range symbols {
		if s.Index == lit {
			b.WriteString("[" + s.Text + "]")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
