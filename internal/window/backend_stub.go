//go:build !windows

package window

import (
	"errors"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

// ErrUnsupported is returned on platforms without a window backend.
var ErrUnsupported = errors.New("window: only supported on windows")

// NoopBackend is the non-Windows placeholder backend.
type NoopBackend struct{}

// NewBackend returns a backend whose methods fail with ErrUnsupported.
func NewBackend() *NoopBackend { return &NoopBackend{} }

// TopLevel always fails with ErrUnsupported.
func (b *NoopBackend) TopLevel() ([]Info, error) { return nil, ErrUnsupported }

// Move always fails with ErrUnsupported.
func (b *NoopBackend) Move(Handle, geom.Rect, bool) error { return ErrUnsupported }

// IsWindow always reports false.
func (b *NoopBackend) IsWindow(Handle) bool { return false }
