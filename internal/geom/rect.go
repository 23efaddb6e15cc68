// Package geom holds rectangle types shared by the display and window layers.
package geom

import "fmt"

// Rect describes a rectangle in virtual-desktop coordinates using top-left
// origin and size. Negative X/Y are valid: displays left of or above the
// primary display sit at negative coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// String formats the rectangle as "(x,y,WxH)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%dx%d)", r.X, r.Y, r.W, r.H)
}

// Area returns the rectangle's area, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// SamePosition reports whether two rectangles share a top-left corner.
func (r Rect) SamePosition(o Rect) bool {
	return r.X == o.X && r.Y == o.Y
}
