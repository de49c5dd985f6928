package engines

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/speech"
	"golang.org/x/time/rate"
)

// gTTS accents are chosen by language plus Google top level domain.
var gttsVoices = []struct {
	locale string
	lang   string
	tld    string
	name   string
}{
	{"en-US", "en", "com", "English (United States)"},
	{"en-GB", "en", "co.uk", "English (United Kingdom)"},
	{"en-AU", "en", "com.au", "English (Australia)"},
	{"de-DE", "de", "de", "German (Germany)"},
	{"fr-FR", "fr", "fr", "French (France)"},
}

// slowRate is the rate below which gTTS is asked to speak slowly.
const slowRate = 0.5

// GTTSConfig holds configuration for the gTTS engine.
type GTTSConfig struct {
	// Binary is the gtts-cli executable; defaults to "gtts-cli".
	Binary string
	// RequestsPerMinute limits requests to Google; defaults to 50.
	RequestsPerMinute int
}

// GTTSEngine implements speech.Synthesizer using gtts-cli (Google Translate
// TTS). It needs network access and has no pitch control.
type GTTSEngine struct {
	binary  string
	limiter *rate.Limiter
}

// NewGTTSEngine creates a new gTTS engine.
func NewGTTSEngine(cfg GTTSConfig) *GTTSEngine {
	if cfg.Binary == "" {
		cfg.Binary = "gtts-cli"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	return &GTTSEngine{
		binary:  cfg.Binary,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 3),
	}
}

// GTTSArgs maps an utterance onto gtts-cli flags. Text is read from stdin.
func GTTSArgs(u speech.Utterance) []string {
	lang, tld := "en", "com"
	if id := u.VoiceID(); id != "" {
		for _, v := range gttsVoices {
			if strings.EqualFold(v.locale, id) {
				lang, tld = v.lang, v.tld
				break
			}
		}
	}
	args := []string{"--lang", lang, "--tld", tld}
	if u.Rate < slowRate {
		args = append(args, "--slow")
	}
	return append(args, "--output", "-", "-")
}

// Synthesize fetches MP3 from Google and decodes it.
func (e *GTTSEngine) Synthesize(ctx context.Context, u speech.Utterance) (*audio.PCM, error) {
	if u.Text == "" {
		return nil, speech.ErrEmptyText
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	mp3Data, err := run(ctx, strings.NewReader(u.Text), e.binary, GTTSArgs(u)...)
	if err != nil {
		return nil, err
	}
	return audio.DecodeMP3(mp3Data)
}

// Voices returns the accents gTTS offers.
func (e *GTTSEngine) Voices(context.Context) ([]speech.Voice, error) {
	voices := make([]speech.Voice, 0, len(gttsVoices))
	for _, v := range gttsVoices {
		voices = append(voices, speech.Voice{
			ID:       v.locale,
			Name:     v.name,
			Language: v.locale,
			Engine:   "gtts",
		})
	}
	return voices, nil
}

// Info returns engine capabilities.
func (e *GTTSEngine) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:          "gtts",
		Format:        audio.Format{SampleRate: 24000, Channels: 2},
		IsOnline:      true,
		SupportsVoice: true,
	}
}

// Validate checks gtts-cli is on the PATH.
func (e *GTTSEngine) Validate() error {
	if _, err := lookPath(e.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", speech.ErrEngineNotAvailable, e.binary)
	}
	return nil
}

// Close is a no-op.
func (e *GTTSEngine) Close() error { return nil }

var _ speech.Synthesizer = (*GTTSEngine)(nil)
