package engines

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/dgnsrekt/speakhost/internal/speech/engines/mock"
)

// Engine names accepted by New.
const (
	Espeak = "espeak"
	Piper  = "piper"
	GTTS   = "gtts"
	Mock   = "mock"
)

// Names lists the supported engines.
var Names = []string{Espeak, Piper, GTTS, Mock}

// Config gathers the per-engine configuration.
type Config struct {
	Espeak EspeakConfig
	Piper  PiperConfig
	GTTS   GTTSConfig
}

// New creates the named engine.
func New(name string, cfg Config) (speech.Synthesizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Espeak, "espeak-ng":
		return NewEspeakEngine(cfg.Espeak), nil
	case Piper:
		return NewPiperEngine(cfg.Piper)
	case GTTS, "google":
		return NewGTTSEngine(cfg.GTTS), nil
	case Mock:
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q (choose one of %s)", speech.ErrInvalidEngine, name, strings.Join(Names, ", "))
	}
}
