package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# spell the host out one character at a time
enumerate: true
# pick a random voice for every symbol
random_voices: true
# speech engine: espeak, piper, gtts or mock
engine: "espeak"
# fixed voice ID, overrides random voices (see "speakhost voices")
voice: ""
# how long a symbol without audio stays lit
placeholder: "500ms"
# stop after this many passes, 0 loops forever
rounds: 0

voices:
  # locales random voices are drawn from
  allowed: ["en-US", "en-GB", "de-DE"]
  # non-zero makes the voice sequence repeatable
  seed: 0

espeak:
  binary: "espeak-ng"

piper:
  binary: "piper"
  # model: "~/.local/share/piper/en_US-lessac-medium.onnx"
  # config: "~/.local/share/piper/en_US-lessac-medium.onnx.json"
  # speaker: "0"

gtts:
  binary: "gtts-cli"
  requests_per_minute: 50

audio:
  sample_rate: 44100
  channels: 1
  buffer: "100ms"
  volume: 1.0

speech:
  synthesis_per_second: 20
  timeout: "30s"

cache:
  memory_mb: 32
  # keep synthesized audio between runs
  disk: true
  disk_mb: 100
  # dir: "~/.cache/speakhost/audio"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speakhost config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speakhost config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speakhost config\nspeakhost config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, err := ensureConfigFile(afero.NewOsFs(), configFile)
		if err != nil {
			return err
		}
		configFile = file

		c, err := editor.Cmd("speakhost", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", configFile)
		return nil
	},
}

// ensureConfigFile makes sure file exists, writing the default config if it
// does not. An empty file means the one viper loaded. It returns the path it
// settled on.
func ensureConfigFile(fsys afero.Fs, file string) (string, error) {
	if file == "" {
		file = viper.ConfigFileUsed()
	}
	if file == "" {
		return "", errors.New("no config file location, pass one with --config")
	}
	file = expandPath(file)

	if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
		return "", fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	exists, err := afero.Exists(fsys, file)
	if err != nil {
		return "", fmt.Errorf("unable to stat config file: %w", err)
	}
	if exists {
		return file, nil
	}

	if err := fsys.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return "", fmt.Errorf("unable create directory: %w", err)
	}
	if err := afero.WriteFile(fsys, file, []byte(defaultConfig), 0o600); err != nil {
		return "", fmt.Errorf("unable to write config file: %w", err)
	}
	log.Debug("wrote default config", "path", file)
	return file, nil
}
