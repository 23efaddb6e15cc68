//go:build !windows

package display

import "errors"

// ErrUnsupported indicates the Win32 display APIs are not available.
var ErrUnsupported = errors.New("display configuration is only supported on Windows")

// NoopBackend is a placeholder backend for non-Windows builds.
type NoopBackend struct{}

// NewBackend returns a non-functional backend on non-Windows platforms.
func NewBackend() Backend {
	return &NoopBackend{}
}

// Devices returns ErrUnsupported.
func (n *NoopBackend) Devices() ([]Device, error) {
	return nil, ErrUnsupported
}

// CurrentMode returns ErrUnsupported.
func (n *NoopBackend) CurrentMode(device string) (Mode, error) {
	_ = device
	return Mode{}, ErrUnsupported
}

// ApplyMode returns ErrUnsupported.
func (n *NoopBackend) ApplyMode(device string, change ModeChange, opts ApplyOptions) error {
	_, _, _ = device, change, opts
	return ErrUnsupported
}

// CommitStaged returns ErrUnsupported.
func (n *NoopBackend) CommitStaged() error {
	return ErrUnsupported
}

// ActiveSourceOrigins returns ErrUnsupported.
func (n *NoopBackend) ActiveSourceOrigins() ([]SourceOrigin, error) {
	return nil, ErrUnsupported
}

// ApplySourceOrigins returns ErrUnsupported.
func (n *NoopBackend) ApplySourceOrigins(origins []SourceOrigin) error {
	_ = origins
	return ErrUnsupported
}
