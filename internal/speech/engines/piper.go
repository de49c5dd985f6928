package engines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgnsrekt/speakhost/internal/audio"
	"github.com/dgnsrekt/speakhost/internal/speech"
)

// PiperConfig holds configuration for the Piper engine.
type PiperConfig struct {
	// Binary is the piper executable; defaults to "piper".
	Binary string
	// ModelPath is the .onnx voice model (required).
	ModelPath string
	// ConfigPath defaults to the model path with .json appended.
	ConfigPath string
	// Speaker selects a speaker in multi-speaker models.
	Speaker string
}

// PiperEngine implements speech.Synthesizer using Piper (offline TTS).
// Piper has no pitch control; one model is one voice.
type PiperEngine struct {
	binary     string
	modelPath  string
	configPath string
	speaker    string
	voice      speech.Voice
	format     audio.Format
}

// piperModelConfig is the subset of the model's .onnx.json we read.
type piperModelConfig struct {
	Audio struct {
		SampleRate int `json:"sample_rate"`
	} `json:"audio"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
}

// NewPiperEngine creates a new Piper engine.
func NewPiperEngine(cfg PiperConfig) (*PiperEngine, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = cfg.ModelPath + ".json"
	}

	mc, err := readPiperModelConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if mc.Audio.SampleRate == 0 {
		mc.Audio.SampleRate = 22050
	}

	id := strings.TrimSuffix(filepath.Base(cfg.ModelPath), filepath.Ext(cfg.ModelPath))
	lang := strings.ReplaceAll(mc.Language.Code, "_", "-")
	if lang == "" {
		// model names start with the locale, e.g. en_US-lessac-medium
		lang = strings.ReplaceAll(strings.SplitN(id, "-", 2)[0], "_", "-")
	}

	return &PiperEngine{
		binary:     cfg.Binary,
		modelPath:  cfg.ModelPath,
		configPath: cfg.ConfigPath,
		speaker:    cfg.Speaker,
		voice:      speech.Voice{ID: id, Name: id, Language: lang, Engine: "piper"},
		format:     audio.Format{SampleRate: mc.Audio.SampleRate, Channels: 1},
	}, nil
}

func readPiperModelConfig(path string) (piperModelConfig, error) {
	var mc piperModelConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return mc, fmt.Errorf("model config not found: %w", err)
	}
	if err := json.Unmarshal(data, &mc); err != nil {
		return mc, fmt.Errorf("invalid model config %s: %w", path, err)
	}
	return mc, nil
}

// LengthScale converts a rate multiplier to Piper's length scale, where
// larger values are slower.
func LengthScale(rate float64) float64 {
	if rate <= 0 {
		return 1.0
	}
	return clamp(1.0/rate, 0.25, 4.0)
}

// Synthesize converts text to raw PCM using Piper.
func (e *PiperEngine) Synthesize(ctx context.Context, u speech.Utterance) (*audio.PCM, error) {
	if u.Text == "" {
		return nil, speech.ErrEmptyText
	}

	args := []string{
		"--model", e.modelPath,
		"--config", e.configPath,
		"--output-raw",
		"--length-scale", fmt.Sprintf("%.2f", LengthScale(u.Rate)),
	}
	if e.speaker != "" {
		args = append(args, "--speaker", e.speaker)
	}

	out, err := run(ctx, strings.NewReader(u.Text), e.binary, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("piper produced no audio output")
	}
	return &audio.PCM{Data: out, Format: e.format}, nil
}

// Voices returns the single voice of the loaded model.
func (e *PiperEngine) Voices(context.Context) ([]speech.Voice, error) {
	return []speech.Voice{e.voice}, nil
}

// Info returns engine capabilities.
func (e *PiperEngine) Info() speech.EngineInfo {
	return speech.EngineInfo{
		Name:          "piper",
		Format:        e.format,
		SupportsVoice: true,
	}
}

// Validate checks that piper and the model are available.
func (e *PiperEngine) Validate() error {
	if _, err := lookPath(e.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", speech.ErrEngineNotAvailable, e.binary)
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return fmt.Errorf("model file not accessible: %w", err)
	}
	return nil
}

// Close is a no-op.
func (e *PiperEngine) Close() error { return nil }

var _ speech.Synthesizer = (*PiperEngine)(nil)
