package speech

import (
	"context"

	"github.com/dgnsrekt/speakhost/internal/audio"
)

// Synthesizer converts utterances into audio. Implementations live in the
// engines package and its subpackages.
type Synthesizer interface {
	// Synthesize renders the utterance as PCM in the engine's native format.
	Synthesize(ctx context.Context, u Utterance) (*audio.PCM, error)

	// Voices lists the voices the engine can speak with.
	Voices(ctx context.Context) ([]Voice, error)

	// Info describes the engine.
	Info() EngineInfo

	// Validate checks the engine is installed and usable.
	Validate() error

	// Close releases engine resources.
	Close() error
}

// EngineInfo describes engine capabilities.
type EngineInfo struct {
	Name          string
	Format        audio.Format
	IsOnline      bool
	SupportsPitch bool
	SupportsVoice bool
}

// Player plays PCM and blocks until playback ends.
type Player interface {
	Play(ctx context.Context, pcm *audio.PCM) error
	Format() audio.Format
}

// Cache stores synthesized PCM keyed by cache.Key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}
