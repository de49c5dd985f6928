package engines

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// espeak-ng scales
const (
	espeakBaseWPM  = 175
	espeakMinWPM   = 80
	espeakMaxWPM   = 450
	espeakMaxPitch = 99
)

// EspeakConfig holds configuration for the espeak-ng engine.
type EspeakConfig struct {
	// Binary is the espeak-ng executable; defaults to "espeak-ng".
	Binary string
	// TempDir receives intermediate wav files; defaults to os.TempDir().
	TempDir string
}

// EspeakEngine synthesizes speech with espeak-ng. It supports voices, rate
// and pitch.
type EspeakEngine struct {
	binary  string
	tempDir string

	mu     sync.Mutex
	voices []speech.Voice
}

// NewEspeakEngine creates an espeak-ng engine.
func NewEspeakEngine(cfg EspeakConfig) *EspeakEngine {
	if cfg.Binary == "" {
		cfg.Binary = "espeak-ng"
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &EspeakEngine{binary: cfg.Binary, tempDir: cfg.TempDir}
}

// EspeakArgs maps an utterance onto espeak-ng flags, excluding the output.
func EspeakArgs(u speech.Utterance) []string {
	wpm := int(clamp(espeakBaseWPM*u.Rate, espeakMinWPM, espeakMaxWPM))
	pitch := int(clamp(50*u.Pitch, 0, espeakMaxPitch))
	args := []string{
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
	}
	if id := u.VoiceID(); id != "" {
		args = append(args, "-v", id)
	}
	return args
}

// Synthesize renders u through a temporary wav file, since espeak-ng cannot
// finalize wav headers when writing to a pipe.
func (e *EspeakEngine) Synthesize(ctx context.Context, u speech.Utterance) (*audio.PCM, error) {
	if u.Text == "" {
		return nil, speech.ErrEmptyText
	}

	f, err := os.CreateTemp(e.tempDir, "speakhost-*.wav")
	if err != nil {
		return nil, fmt.Errorf("unable to create temp file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	defer os.Remove(name) //nolint:errcheck

	args := append(EspeakArgs(u), "-w", name)
	if _, err := run(ctx, strings.NewReader(u.Text), e.binary, args...); err != nil {
		return nil, err
	}

	wf, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open espeak output: %w", err)
	}
	defer wf.Close() //nolint:errcheck
	return audio.DecodeWAV(wf)
}

// Voices lists installed espeak-ng voices.
func (e *EspeakEngine) Voices(ctx context.Context) ([]speech.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.voices != nil {
		return e.voices, nil
	}

	out, err := run(ctx, nil, e.binary, "--voices")
	if err != nil {
		return nil, err
	}
	voices, err := ParseEspeakVoices(out)
	if err != nil {
		return nil, err
	}
	e.voices = voices
	return voices, nil
}

// ParseEspeakVoices parses the table printed by `espeak-ng --voices`.
func ParseEspeakVoices(out []byte) ([]speech.Voice, error) {
	var voices []speech.Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if header {
			header = false
			if strings.HasPrefix(line, "Pty") {
				continue
			}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		lang := fields[1]
		voices = append(voices, speech.Voice{
			ID:       lang,
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: lang,
			Engine:   "espeak",
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unable to read voice list: %w", err)
	}
	if len(voices) == 0 {
		return nil, errors.New("espeak-ng reported no voices")
	}
	return voices, nil
}

// Info returns engine capabilities.
func (e *EspeakEngine) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:          "espeak",
		Format:        audio.Format{SampleRate: 22050, Channels: 1},
		SupportsPitch: true,
		SupportsVoice: true,
	}
}

// Validate checks espeak-ng is on the PATH.
func (e *EspeakEngine) Validate() error {
	if _, err := lookPath(e.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", speech.ErrEngineNotAvailable, e.binary)
	}
	return nil
}

// Close is a no-op.
func (e *EspeakEngine) Close() error { return nil }

var _ speech.Synthesizer = (*EspeakEngine)(nil)
