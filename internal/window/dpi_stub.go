//go:build !windows

package window

// EnableDPIAwareness is a no-op outside Windows.
func EnableDPIAwareness() {}
