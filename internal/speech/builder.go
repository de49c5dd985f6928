package speech

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
)

// VoiceLister lists the voices a synthesizer offers.
type VoiceLister interface {
	Voices(ctx context.Context) ([]Voice, error)
}

// BuilderConfig configures utterance construction.
type BuilderConfig struct {
	// RandomVoices draws a random allowed voice for every utterance.
	RandomVoices bool
	// AllowedLocales limits random voices; defaults to DefaultAllowedLocales.
	AllowedLocales []string
	// Voice pins every utterance to one voice ID and wins over RandomVoices.
	Voice string
	// Seed makes voice selection reproducible when non-zero.
	Seed uint64
}

// Builder creates utterances for symbols.
type Builder struct {
	lister  VoiceLister
	cfg     BuilderConfig
	allowed []language.Tag

	mu     sync.Mutex
	rnd    *rand.Rand
	voices []Voice
	loaded bool
}

// NewBuilder returns a Builder that asks lister for voices when needed.
func NewBuilder(lister VoiceLister, cfg BuilderConfig) (*Builder, error) {
	locales := cfg.AllowedLocales
	if len(locales) == 0 {
		locales = DefaultAllowedLocales
	}
	allowed, err := ParseLocales(locales)
	if err != nil {
		return nil, NewError(ErrorCodeInvalidInput, "bad locale allow-list", err)
	}

	b := &Builder{lister: lister, cfg: cfg, allowed: allowed}
	if cfg.Seed != 0 {
		b.rnd = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	return b, nil
}

// Build creates the utterance for one symbol.
func (b *Builder) Build(ctx context.Context, symbol string) (*Utterance, error) {
	if symbol == "" {
		return nil, NewError(ErrorCodeInvalidInput, "cannot build utterance", ErrEmptyText)
	}

	u := &Utterance{Text: Pronounce(symbol)}
	u.Rate, u.Pitch = Prosody(symbol)

	if b.cfg.Voice == "" && !b.cfg.RandomVoices {
		return u, nil
	}

	voices, err := b.listVoices(ctx)
	if err != nil {
		return nil, NewError(ErrorCodeEngineFailure, "cannot list voices", err).WithSymbol(symbol)
	}

	if b.cfg.Voice != "" {
		v, ok := FindVoice(voices, b.cfg.Voice)
		if !ok {
			return nil, NewError(ErrorCodeInvalidInput, "unknown voice "+b.cfg.Voice, nil).WithSymbol(symbol)
		}
		u.Voice = v
		return u, nil
	}

	b.mu.Lock()
	u.Voice = SelectVoice(voices, b.allowed, b.rnd)
	b.mu.Unlock()
	if u.Voice == nil {
		log.Debug("no voice matches the allowed locales, using engine default", "symbol", symbol)
	}
	return u, nil
}

// BuildAll builds one utterance per symbol. A symbol whose utterance fails to
// build gets nil and is logged; the caller treats it as silent.
func (b *Builder) BuildAll(ctx context.Context, symbols []string) []*Utterance {
	out := make([]*Utterance, len(symbols))
	for i, s := range symbols {
		u, err := b.Build(ctx, s)
		if err != nil {
			log.Error("Error creating utterance", "symbol", s, "error", err)
			continue
		}
		out[i] = u
	}
	return out
}

// listVoices fetches the voice list once and reuses it.
func (b *Builder) listVoices(ctx context.Context) ([]Voice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.voices, nil
	}
	voices, err := b.lister.Voices(ctx)
	if err != nil {
		return nil, err
	}
	b.voices = voices
	b.loaded = true
	return voices, nil
}
