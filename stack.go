package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/cache"
	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/dgnsrekt/speakhost/internal/speech/engines"
	"github.com/spf13/viper"
)

// speechStack is the engine, player and cache behind a Speaker.
type speechStack struct {
	synth   speech.Synthesizer
	player  interface {
		speech.Player
		Close() error
	}
	cache   *cache.Manager
	speaker *speech.Speaker
}

func engineConfig() engines.Config {
	return engines.Config{
		Espeak: engines.EspeakConfig{
			Binary: viper.GetString("espeak.binary"),
		},
		Piper: engines.PiperConfig{
			Binary:     viper.GetString("piper.binary"),
			ModelPath:  expandPath(viper.GetString("piper.model")),
			ConfigPath: expandPath(viper.GetString("piper.config")),
			Speaker:    viper.GetString("piper.speaker"),
		},
		GTTS: engines.GTTSConfig{
			Binary:            viper.GetString("gtts.binary"),
			RequestsPerMinute: viper.GetInt("gtts.requests_per_minute"),
		},
	}
}

func newEngine() (speech.Synthesizer, error) {
	synth, err := engines.New(engineName, engineConfig())
	if err != nil {
		return nil, err
	}
	if err := synth.Validate(); err != nil {
		return nil, fmt.Errorf("engine %s is not usable: %w", engineName, err)
	}
	return synth, nil
}

func cacheConfig() (cache.Config, error) {
	cfg := cache.DefaultConfig()
	cfg.MemoryCapacity = viper.GetInt64("cache.memory_mb") << 20
	cfg.DiskCapacity = viper.GetInt64("cache.disk_mb") << 20
	if !viper.GetBool("cache.disk") {
		return cfg, nil
	}

	dir := expandPath(viper.GetString("cache.dir"))
	if dir == "" {
		var err error
		if dir, err = defaultCacheDir(); err != nil {
			return cfg, err
		}
	}
	cfg.DiskDir = dir
	return cfg, nil
}

func builderConfig() speech.BuilderConfig {
	return speech.BuilderConfig{
		RandomVoices:   randomVoices,
		AllowedLocales: viper.GetStringSlice("voices.allowed"),
		Voice:          voice,
		Seed:           viper.GetUint64("voices.seed"),
	}
}

// newSpeechStack opens the engine, the audio device and the cache. The mock
// engine plays through a mock player so it runs without an audio device.
func newSpeechStack() (*speechStack, error) {
	synth, err := newEngine()
	if err != nil {
		return nil, err
	}
	s := &speechStack{synth: synth}

	if engineName == engines.Mock {
		p := audio.NewMockPlayer(audio.DefaultFormat)
		p.Speed = 1
		s.player = p
	} else {
		p, err := audio.NewPlayer(audio.PlayerConfig{
			Format: audio.Format{
				SampleRate: viper.GetInt("audio.sample_rate"),
				Channels:   viper.GetInt("audio.channels"),
			},
			BufferSize: viper.GetDuration("audio.buffer"),
		})
		if err != nil {
			_ = synth.Close()
			return nil, err
		}
		if err := p.SetVolume(viper.GetFloat64("audio.volume")); err != nil {
			log.Warn("unable to set volume", "error", err)
		}
		s.player = p
	}

	ccfg, err := cacheConfig()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if s.cache, err = cache.NewManager(ccfg); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("unable to open audio cache: %w", err)
	}

	s.speaker = speech.NewSpeaker(synth, s.player, s.cache, speech.SpeakerConfig{
		SynthesisPerSecond: viper.GetFloat64("speech.synthesis_per_second"),
		Timeout:            viper.GetDuration("speech.timeout"),
	})
	log.Debug("speech ready", "engine", synth.Info().Name, "format", s.player.Format(), "cache", ccfg.DiskDir)
	return s, nil
}

func (s *speechStack) Close() error {
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	if s.player != nil {
		errs = append(errs, s.player.Close())
	}
	errs = append(errs, s.synth.Close())
	return errors.Join(errs...)
}
