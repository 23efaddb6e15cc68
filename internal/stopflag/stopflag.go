// Package stopflag manages the filesystem artifact that tells companion
// tooling the session was stopped deliberately rather than crashing.
package stopflag

import (
	"fmt"
	"os"
	"path/filepath"
)

// Flag is a marker file at a fixed path.
type Flag struct {
	path string
}

// New returns a flag at the given path.
func New(path string) *Flag { return &Flag{path: path} }

// Path returns the flag file location.
func (f *Flag) Path() string { return f.path }

// Write creates the marker file. Consumers only poll for existence, so
// the body stays empty. The parent directory is created if missing.
func (f *Flag) Write() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("stopflag: create dir: %w", err)
	}
	if err := os.WriteFile(f.path, nil, 0o644); err != nil {
		return fmt.Errorf("stopflag: write: %w", err)
	}
	return nil
}

// Clear removes the marker file. A missing file is not an error.
func (f *Flag) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("stopflag: clear: %w", err)
	}
	return nil
}

// Present reports whether the marker file exists.
func (f *Flag) Present() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
