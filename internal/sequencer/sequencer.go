package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// DefaultPlaceholder is how long a symbol without audio stays lit.
const DefaultPlaceholder = 500 * time.Millisecond

// Speaker speaks an utterance and returns once it has finished playing.
type Speaker interface {
	Speak(ctx context.Context, u speech.Utterance) error
}

// Highlighter switches the highlight of the symbol at index. Implementations
// that block should give up when ctx is done.
type Highlighter interface {
	Highlight(ctx context.Context, index int, on bool)
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(ctx context.Context, index int, on bool)

// Highlight calls f.
func (f HighlighterFunc) Highlight(ctx context.Context, index int, on bool) { f(ctx, index, on) }

// Symbol is one spoken unit bound to its display cell.
type Symbol struct {
	// Index is the display cell the symbol is drawn in.
	Index int
	Text  string
	// Utterance is nil when it could not be built; the symbol is then a
	// silent placeholder.
	Utterance *speech.Utterance
}

// NewSymbols pairs texts with their utterances. Both slices must have the
// same length.
func NewSymbols(texts []string, utterances []*speech.Utterance) ([]Symbol, error) {
	if len(texts) != len(utterances) {
		return nil, fmt.Errorf("have %d symbols but %d utterances", len(texts), len(utterances))
	}
	symbols := make([]Symbol, len(texts))
	for i, t := range texts {
		symbols[i] = Symbol{Index: i, Text: t, Utterance: utterances[i]}
	}
	return symbols, nil
}

// Config configures a Sequencer.
type Config struct {
	// Placeholder is how long silent symbols stay lit.
	Placeholder time.Duration
	// Rounds stops the loop after that many passes; zero loops forever.
	Rounds int
}

// DefaultConfig loops forever with a 500ms placeholder.
func DefaultConfig() Config {
	return Config{Placeholder: DefaultPlaceholder}
}

// Sequencer drives the playback loop.
type Sequencer struct {
	speaker     Speaker
	highlighter Highlighter
	cfg         Config
}

// New creates a Sequencer.
func New(speaker Speaker, highlighter Highlighter, cfg Config) *Sequencer {
	if cfg.Placeholder <= 0 {
		cfg.Placeholder = DefaultPlaceholder
	}
	return &Sequencer{speaker: speaker, highlighter: highlighter, cfg: cfg}
}

// Run plays symbols in order, wrapping to the first after the last, until
// ctx is done or the configured rounds are complete. A failing step is
// logged and the loop moves on. Cancellation is a normal way to stop and is
// not reported as an error.
func (s *Sequencer) Run(ctx context.Context, symbols []Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	log.Debug("playback loop started", "symbols", len(symbols), "rounds", s.cfg.Rounds)
	defer log.Debug("playback loop stopped")

	for round := 0; s.cfg.Rounds == 0 || round < s.cfg.Rounds; round++ {
		for _, sym := range symbols {
			if ctx.Err() != nil {
				return nil
			}
			s.step(ctx, sym)
		}
	}
	return nil
}

// step lights one symbol, speaks it (or waits), and turns the light off.
func (s *Sequencer) step(ctx context.Context, sym Symbol) {
	s.highlighter.Highlight(ctx, sym.Index, true)
	defer s.highlighter.Highlight(ctx, sym.Index, false)

	if sym.Utterance == nil {
		s.pause(ctx)
		return
	}

	if err := s.speaker.Speak(ctx, *sym.Utterance); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("Error speaking", "symbol", sym.Text, "index", sym.Index, "error", err)
		// failed symbols stay lit for the placeholder duration
		s.pause(ctx)
	}
}

func (s *Sequencer) pause(ctx context.Context) {
	t := time.NewTimer(s.cfg.Placeholder)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
