package speech

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/cache"
	"golang.org/x/time/rate"
)

// SpeakerConfig configures a Speaker.
type SpeakerConfig struct {
	// SynthesisPerSecond throttles calls into the synthesizer. Zero disables
	// throttling.
	SynthesisPerSecond float64
	// Timeout bounds a single synthesis call.
	Timeout time.Duration
}

// DefaultSpeakerConfig returns the default speaker configuration.
func DefaultSpeakerConfig() SpeakerConfig {
	return SpeakerConfig{
		SynthesisPerSecond: 20,
		Timeout:            30 * time.Second,
	}
}

// SpeakerStats counts what a Speaker has done.
type SpeakerStats struct {
	Spoken      int64
	Synthesized int64
	CacheHits   int64
	Failures    int64
}

// Speaker speaks utterances: it synthesizes through the cache, converts the
// audio to the player's format and plays it, returning once playback ends.
// It is the speech capability the sequencer is given.
type Speaker struct {
	synth   Synthesizer
	player  Player
	cache   Cache
	limiter *rate.Limiter
	timeout time.Duration

	spoken      atomic.Int64
	synthesized atomic.Int64
	cacheHits   atomic.Int64
	failures    atomic.Int64
}

// NewSpeaker wires a synthesizer, a player and an optional cache.
func NewSpeaker(synth Synthesizer, player Player, c Cache, cfg SpeakerConfig) *Speaker {
	s := &Speaker{
		synth:   synth,
		player:  player,
		cache:   c,
		timeout: cfg.Timeout,
	}
	if cfg.SynthesisPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SynthesisPerSecond), 1)
	}
	return s
}

// Engine returns the synthesizer's description.
func (s *Speaker) Engine() EngineInfo {
	return s.synth.Info()
}

// Speak plays u and blocks until it has been heard or ctx is done.
func (s *Speaker) Speak(ctx context.Context, u Utterance) error {
	pcm, err := s.Render(ctx, u)
	if err != nil {
		return err
	}
	if err := s.player.Play(ctx, pcm); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.failures.Add(1)
		return NewError(ErrorCodeAudioFailure, "playback failed", err).WithSymbol(u.Text)
	}
	s.spoken.Add(1)
	return nil
}

// Render returns u as PCM in the player's format, synthesizing on a cache
// miss.
func (s *Speaker) Render(ctx context.Context, u Utterance) (*audio.PCM, error) {
	if u.Text == "" {
		return nil, NewError(ErrorCodeInvalidInput, "cannot speak", ErrEmptyText)
	}

	format := s.player.Format()
	key := cache.Key(s.synth.Info().Name+"@"+format.String(), u.VoiceID(), u.Rate, u.Pitch, u.Text)
	if s.cache != nil {
		if data, ok := s.cache.Get(key); ok {
			s.cacheHits.Add(1)
			return &audio.PCM{Data: data, Format: format}, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, NewError(ErrorCodeCanceled, "synthesis throttled", err)
		}
	}

	sctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	native, err := s.synth.Synthesize(sctx, u)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.failures.Add(1)
		code := ErrorCodeEngineFailure
		if errors.Is(err, context.DeadlineExceeded) {
			code = ErrorCodeEngineTimeout
		}
		return nil, NewError(code, fmt.Sprintf("%s synthesis failed", s.synth.Info().Name), err).WithSymbol(u.Text)
	}
	s.synthesized.Add(1)

	pcm, err := audio.Convert(native, format)
	if err != nil {
		s.failures.Add(1)
		return nil, NewError(ErrorCodeAudioFailure, "cannot convert audio", err).WithSymbol(u.Text)
	}
	log.Debug("synthesized utterance",
		"text", u.Text,
		"voice", u.VoiceID(),
		"rate", u.Rate,
		"pitch", u.Pitch,
		"duration", pcm.Duration(),
		"took", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Put(key, pcm.Data); err != nil {
			log.Warn("unable to cache audio", "text", u.Text, "error", err)
		}
	}
	return pcm, nil
}

// Warm renders every utterance so the loop does not wait on synthesis.
// Nil entries are skipped; failures are logged and do not stop warming.
func (s *Speaker) Warm(ctx context.Context, utterances []*Utterance) {
	for _, u := range utterances {
		if u == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Render(ctx, *u); err != nil && ctx.Err() == nil {
			log.Warn("unable to prepare utterance", "text", u.Text, "error", err)
		}
	}
}

// Stats returns counters since the speaker was created.
func (s *Speaker) Stats() SpeakerStats {
	return SpeakerStats{
		Spoken:      s.spoken.Load(),
		Synthesized: s.synthesized.Load(),
		CacheHits:   s.cacheHits.Load(),
		Failures:    s.failures.Load(),
	}
}
