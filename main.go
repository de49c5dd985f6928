// Package main provides the entry point for the speakhost CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speakhost/internal/sequencer"
	"github.com/dgnsrekt/speakhost/internal/speech"
	"github.com/dgnsrekt/speakhost/internal/speech/engines"
	"github.com/dgnsrekt/speakhost/ui"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	enumerate    bool
	randomVoices bool
	engineName   string
	voice        string
	placeholder  time.Duration
	rounds       int
	plain        bool
	paused       bool
	debug        bool

	closeLog = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "speakhost [HOST]",
		Short: "Show a host name and read it out loud",
		Long: paragraph(
			fmt.Sprintf("\nShow a host name and %s, one character at a time, highlighting each one as it is spoken.", keyword("read it out loud")),
		),
		Example: paragraph("speakhost\nspeakhost example.com\nspeakhost https://example.com:8080/docs --enumerate=false\nspeakhost --engine gtts --voice en-GB"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(expandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// grab config values from Viper
	enumerate = viper.GetBool("enumerate")
	randomVoices = viper.GetBool("random_voices")
	engineName = strings.ToLower(strings.TrimSpace(viper.GetString("engine")))
	voice = viper.GetString("voice")
	placeholder = viper.GetDuration("placeholder")
	rounds = viper.GetInt("rounds")
	plain = viper.GetBool("plain")
	paused = viper.GetBool("paused")
	debug = viper.GetBool("debug")

	if placeholder < 0 {
		return fmt.Errorf("placeholder must not be negative, got %s", placeholder)
	}
	if rounds < 0 {
		return fmt.Errorf("rounds must not be negative, got %d", rounds)
	}
	if plain && paused {
		return errors.New("cannot use both plain and paused")
	}

	// The TUI needs a terminal to draw on.
	if !plain && !term.IsTerminal(int(os.Stdout.Fd())) {
		plain = true
	}

	closer, err := setupLog(debug, plain)
	if err != nil {
		return fmt.Errorf("unable to set up logging: %w", err)
	}
	closeLog = closer
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	host, err := resolveHost(args, os.Hostname)
	if err != nil {
		return err
	}

	stack, err := newSpeechStack()
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Close(); err != nil {
			log.Warn("unable to shut down speech", "error", err)
		}
	}()

	if plain {
		return runPlain(cmd.Context(), cmd.OutOrStdout(), host, stack)
	}
	return runTUI(host, stack)
}

// runPlain speaks host without the TUI, printing a line per symbol.
func runPlain(ctx context.Context, w io.Writer, host string, stack *speechStack) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	b, err := speech.NewBuilder(stack.synth, builderConfig())
	if err != nil {
		return err
	}
	symbols := sequencer.Compose(ctx, b, host, enumerate)

	seq := sequencer.New(stack.speaker, &plainHighlighter{w: w, symbols: symbols}, sequencer.Config{
		Placeholder: placeholder,
		Rounds:      rounds,
	})
	log.Info("speaking", "host", host, "symbols", len(symbols), "engine", stack.synth.Info().Name)
	err = seq.Run(ctx, symbols)

	st := stack.speaker.Stats()
	log.Info("done speaking",
		"spoken", st.Spoken,
		"synthesized", st.Synthesized,
		"cache_hits", st.CacheHits,
		"failures", st.Failures,
	)
	return err
}

func runTUI(host string, stack *speechStack) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Host = host
	cfg.Enumerate = enumerate
	cfg.RandomVoices = randomVoices
	cfg.Placeholder = placeholder
	cfg.Rounds = rounds
	cfg.Autoplay = !paused

	p := ui.NewProgram(cfg, ui.Deps{
		Speaker:    stack.speaker,
		Voices:     stack.synth,
		Builder:    builderConfig(),
		CacheStats: stack.cache.Stats,
	})
	watchConfig(p)

	// Run Bubble Tea program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// watchConfig re-renders the TUI whenever the config file is saved.
func watchConfig(p *tea.Program) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("config file changed", "file", e.Name, "op", e.Op)
		p.Send(ui.SettingsMsg{
			Enumerate:    viper.GetBool("enumerate"),
			RandomVoices: viper.GetBool("random_voices"),
		})
	})
	viper.WatchConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func init() {
	loadDotEnv()
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", engines.Espeak, "speech engine ("+strings.Join(engines.Names, "/")+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")
	rootCmd.Flags().BoolVarP(&enumerate, "enumerate", "e", true, "spell the host out one character at a time")
	rootCmd.Flags().BoolVarP(&randomVoices, "random-voices", "r", true, "use a random voice for every symbol")
	rootCmd.Flags().StringVar(&voice, "voice", "", "speak every symbol with this voice ID")
	rootCmd.Flags().DurationVar(&placeholder, "placeholder", sequencer.DefaultPlaceholder, "how long a symbol without audio stays lit")
	rootCmd.Flags().IntVar(&rounds, "rounds", 0, "stop after this many passes (0 loops forever)")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "print symbols instead of running the TUI")
	rootCmd.Flags().BoolVar(&paused, "paused", false, "start the TUI with playback stopped")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("enumerate", rootCmd.Flags().Lookup("enumerate"))
	_ = viper.BindPFlag("random_voices", rootCmd.Flags().Lookup("random-voices"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("placeholder", rootCmd.Flags().Lookup("placeholder"))
	_ = viper.BindPFlag("rounds", rootCmd.Flags().Lookup("rounds"))
	_ = viper.BindPFlag("plain", rootCmd.Flags().Lookup("plain"))
	_ = viper.BindPFlag("paused", rootCmd.Flags().Lookup("paused"))

	setDefaults(viper.GetViper())

	rootCmd.AddCommand(configCmd, voicesCmd, manCmd)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enumerate", true)
	v.SetDefault("random_voices", true)
	v.SetDefault("engine", engines.Espeak)
	v.SetDefault("placeholder", sequencer.DefaultPlaceholder)

	v.SetDefault("voices.allowed", speech.DefaultAllowedLocales)
	v.SetDefault("espeak.binary", "espeak-ng")
	v.SetDefault("piper.binary", "piper")
	v.SetDefault("gtts.binary", "gtts-cli")
	v.SetDefault("gtts.requests_per_minute", 50)

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.buffer", 100*time.Millisecond)
	v.SetDefault("audio.volume", 1.0)

	speakerDefaults := speech.DefaultSpeakerConfig()
	v.SetDefault("speech.synthesis_per_second", speakerDefaults.SynthesisPerSecond)
	v.SetDefault("speech.timeout", speakerDefaults.Timeout)

	v.SetDefault("cache.memory_mb", 32)
	v.SetDefault("cache.disk", true)
	v.SetDefault("cache.disk_mb", 100)
}

// loadDotEnv reads .env from the working directory so SPEAKHOST_ settings
// can live next to a project.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not load .env file", "error", err)
	}
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "speakhost")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "speakhost")}, dirs...)
	}

	if c := os.Getenv("SPEAKHOST_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("speakhost")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speakhost")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	file, err := ensureConfigFile(afero.NewOsFs(), filepath.Join(dirs[0], "speakhost.yml"))
	if err != nil {
		log.Error("Could not create default configuration", "error", err)
		return
	}
	viper.SetConfigFile(file)
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Could not parse configuration file", "err", err)
	}
}
