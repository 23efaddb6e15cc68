package testutil

import (
	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/window"
)

// MoveCall records a single window move request.
type MoveCall struct {
	Handle       window.Handle
	Rect         geom.Rect
	PositionOnly bool
}

// FakeWindowBackend implements window.Backend over an in-memory window
// list and records every move for tests.
type FakeWindowBackend struct {
	Windows []window.Info
	Moves   []MoveCall
	// ApplyMoves makes Move update the stored window rect, simulating a
	// window manager that honors the request.
	ApplyMoves bool
	// MoveErr, when set, is returned from every Move.
	MoveErr error
	// EnumErr, when set, is returned from every TopLevel.
	EnumErr error
}

// Ensure FakeWindowBackend implements the interface.
var _ window.Backend = (*FakeWindowBackend)(nil)

// TopLevel returns a copy of the configured window list.
func (f *FakeWindowBackend) TopLevel() ([]window.Info, error) {
	if f.EnumErr != nil {
		return nil, f.EnumErr
	}
	out := make([]window.Info, len(f.Windows))
	copy(out, f.Windows)
	return out, nil
}

// Move records the call and optionally applies it to the stored list.
func (f *FakeWindowBackend) Move(h window.Handle, r geom.Rect, positionOnly bool) error {
	f.Moves = append(f.Moves, MoveCall{Handle: h, Rect: r, PositionOnly: positionOnly})
	if f.MoveErr != nil {
		return f.MoveErr
	}
	if f.ApplyMoves {
		for i := range f.Windows {
			if f.Windows[i].Handle != h {
				continue
			}
			if positionOnly {
				f.Windows[i].Rect.X = r.X
				f.Windows[i].Rect.Y = r.Y
			} else {
				f.Windows[i].Rect = r
			}
		}
	}
	return nil
}

// IsWindow reports whether the handle is in the configured list.
func (f *FakeWindowBackend) IsWindow(h window.Handle) bool {
	for _, w := range f.Windows {
		if w.Handle == h {
			return true
		}
	}
	return false
}
