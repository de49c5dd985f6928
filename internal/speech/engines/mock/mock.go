// Package mock provides a silent speech engine for tests and demos.
package mock

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// Engine implements speech.Synthesizer without producing sound. Each
// utterance becomes silence whose length grows with the text and shrinks
// with the rate.
type Engine struct {
	// Delay simulates synthesis latency.
	Delay time.Duration
	// PerCharacter is the audio length of one character at rate 1.
	PerCharacter time.Duration

	mu        sync.Mutex
	format    audio.Format
	voices    []speech.Voice
	voicesErr error
	failures  map[string]error
	calls     []speech.Utterance
}

// New creates a mock engine offering a few voices across locales.
func New() *Engine {
	return &Engine{
		PerCharacter: 50 * time.Millisecond,
		format:       audio.Format{SampleRate: 22050, Channels: 1},
		voices: []speech.Voice{
			{ID: "mock-us", Name: "Mock US", Language: "en-US", Engine: "mock"},
			{ID: "mock-gb", Name: "Mock GB", Language: "en-GB", Engine: "mock"},
			{ID: "mock-de", Name: "Mock DE", Language: "de", Engine: "mock"},
			{ID: "mock-fr", Name: "Mock FR", Language: "fr-FR", Engine: "mock"},
		},
		failures: make(map[string]error),
	}
}

// SetVoices replaces the voice list.
func (e *Engine) SetVoices(voices []speech.Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices = voices
}

// FailVoices makes Voices return err.
func (e *Engine) FailVoices(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voicesErr = err
}

// FailOn makes Synthesize return err for the given text.
func (e *Engine) FailOn(text string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[text] = err
}

// Synthesize returns silence for u.
func (e *Engine) Synthesize(ctx context.Context, u speech.Utterance) (*audio.PCM, error) {
	e.mu.Lock()
	e.calls = append(e.calls, u)
	err := e.failures[u.Text]
	delay := e.Delay
	per := e.PerCharacter
	format := e.format
	e.mu.Unlock()

	if u.Text == "" {
		return nil, speech.ErrEmptyText
	}
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if err != nil {
		return nil, err
	}

	r := u.Rate
	if r < 0.25 {
		r = 0.25
	}
	d := time.Duration(float64(per) * float64(utf8.RuneCountInString(u.Text)) / r)
	if d <= 0 {
		d = time.Millisecond
	}
	return audio.Silence(format, d), nil
}

// Voices returns the configured voices.
func (e *Engine) Voices(context.Context) ([]speech.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.voicesErr != nil {
		return nil, e.voicesErr
	}
	out := make([]speech.Voice, len(e.voices))
	copy(out, e.voices)
	return out, nil
}

// Calls returns every utterance passed to Synthesize.
func (e *Engine) Calls() []speech.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]speech.Utterance, len(e.calls))
	copy(out, e.calls)
	return out
}

// Info returns engine capabilities.
func (e *Engine) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:          "mock",
		Format:        e.format,
		SupportsPitch: true,
		SupportsVoice: true,
	}
}

// Validate always succeeds.
func (e *Engine) Validate() error { return nil }

// Close is a no-op.
func (e *Engine) Close() error { return nil }

var _ speech.Synthesizer = (*Engine)(nil)
