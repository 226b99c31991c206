// Package filex prepares locations on disk for local state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var userHomeDir = os.UserHomeDir

// EnsureDirFor makes sure the directory that will hold the file at path
// exists and returns the cleaned absolute path. A leading "~/" is expanded
// to the user's home directory. SQLite in-memory and URI names are returned
// unchanged.
func EnsureDirFor(path string) (string, error) {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}
