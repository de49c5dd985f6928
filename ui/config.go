package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	// Host is the text that is shown and spoken.
	Host string

	Enumerate    bool
	RandomVoices bool

	// Placeholder is how long a symbol without audio stays lit.
	Placeholder time.Duration
	// Rounds stops playback after that many passes; zero loops forever.
	Rounds int

	// Autoplay starts speaking as soon as the symbols are ready.
	Autoplay bool

	// For debugging the UI
	BounceInterval time.Duration `env:"SPEAKHOST_BOUNCE_INTERVAL" envDefault:"150ms"`
	NoBounce       bool          `env:"SPEAKHOST_NO_BOUNCE"`
	AltScreen      bool          `env:"SPEAKHOST_ALT_SCREEN"       envDefault:"true"`
}
