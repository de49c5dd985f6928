package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "speakhost").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "speakhost.log"), nil
}

// setupLog routes logs for the current mode. The TUI owns the terminal, so
// its logs are discarded unless debugging, which writes them to a file. Plain
// mode logs to stderr.
func setupLog(debug, plain bool) (func() error, error) {
	log.SetOutput(io.Discard)
	log.SetReportTimestamp(true)

	if plain {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	}
	if !debug {
		return func() error { return nil }, nil
	}

	if plain {
		log.SetLevel(log.DebugLevel)
		return func() error { return nil }, nil
	}

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}
