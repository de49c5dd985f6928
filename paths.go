package main

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
)

// expandPath expands environment variables and a leading tilde.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	expanded, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return path
	}
	return expanded
}

// defaultCacheDir is where synthesized audio is kept between runs.
func defaultCacheDir() (string, error) {
	dir, err := gap.NewScope(gap.User, "speakhost").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audio"), nil
}
