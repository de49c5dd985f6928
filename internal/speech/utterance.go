package speech

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Prosody used for symbols that are not numbers.
const (
	DefaultRate  = 0.8
	DefaultPitch = 0.65

	MinPitch = 0.5
	MaxPitch = 2.0
)

// Voice is a voice offered by a synthesizer.
type Voice struct {
	ID       string
	Name     string
	Language string // BCP 47
	Engine   string
}

func (v Voice) String() string {
	if v.Name != "" && v.Name != v.ID {
		return fmt.Sprintf("%s (%s)", v.Name, v.Language)
	}
	return fmt.Sprintf("%s (%s)", v.ID, v.Language)
}

// Utterance is a request to speak text with a given prosody. Rate and pitch
// are multipliers around 1.0; engines translate them to their own scales.
type Utterance struct {
	Text  string
	Rate  float64
	Pitch float64
	Voice *Voice
}

// VoiceID returns the voice ID or "" for the engine default.
func (u Utterance) VoiceID() string {
	if u.Voice == nil {
		return ""
	}
	return u.Voice.ID
}

// Pronounce returns how a symbol should be spoken. Separators common in
// host names are spelled out; everything else is spoken literally.
func Pronounce(symbol string) string {
	switch symbol {
	case ".":
		return "dot"
	case "-":
		return "dash"
	case ":":
		return "colon"
	default:
		return symbol
	}
}

// Prosody returns the rate and pitch for a symbol. Numbers speak faster and
// higher the larger they are; anything else uses a fixed, slightly low
// voice.
func Prosody(symbol string) (rate, pitch float64) {
	n, ok := parseNumber(symbol)
	if !ok {
		return DefaultRate, DefaultPitch
	}

	rate = 0.2 * n
	pitch = 0.25 * n
	switch {
	case pitch > MaxPitch:
		pitch = MaxPitch
	case pitch < MinPitch:
		pitch = MinPitch
	}
	return rate, pitch
}

// parseNumber accepts what a lenient numeric conversion would: surrounding
// whitespace is ignored and blank text counts as zero.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
