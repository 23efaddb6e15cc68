//go:build !windows

// Package winproc provides process snapshots and name/ancestry matching.
package winproc

import "errors"

// ErrUnsupported indicates process snapshots are not available.
var ErrUnsupported = errors.New("winproc is only supported on Windows")

// NoopLister is a placeholder lister for non-Windows builds.
type NoopLister struct{}

// NewLister returns a non-functional lister on non-Windows platforms.
func NewLister() Lister {
	return &NoopLister{}
}

// Processes returns ErrUnsupported.
func (n *NoopLister) Processes() ([]Process, error) {
	return nil, ErrUnsupported
}
