// Package window locates top-level windows and enforces their placement.
package window

import "github.com/sirebacon/CRT-Unified-Launcher/internal/geom"

// Handle identifies one top-level window.
type Handle uintptr

// Info is a snapshot of one top-level window.
type Info struct {
	Handle    Handle
	PID       uint32
	Class     string
	Title     string
	Rect      geom.Rect
	Visible   bool
	Minimized bool
}

// Backend is the OS window surface used by the locator and enforcer.
type Backend interface {
	// TopLevel returns a snapshot of all top-level windows.
	TopLevel() ([]Info, error)
	// Move repositions a window, restoring it first if minimized or
	// maximized. With positionOnly the window keeps its current size.
	Move(h Handle, r geom.Rect, positionOnly bool) error
	// IsWindow reports whether the handle still refers to a live window.
	IsWindow(h Handle) bool
}
