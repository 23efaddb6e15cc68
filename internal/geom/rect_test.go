package geom

import "testing"

// TestArea_Degenerate verifies degenerate rectangles report zero area.
func TestArea_Degenerate(t *testing.T) {
	if a := (Rect{W: -3, H: 10}).Area(); a != 0 {
		t.Fatalf("expected 0, got %d", a)
	}
	if a := (Rect{W: 4, H: 5}).Area(); a != 20 {
		t.Fatalf("expected 20, got %d", a)
	}
}

// TestSamePosition verifies only the top-left corner is compared.
func TestSamePosition(t *testing.T) {
	a := Rect{X: 1, Y: 2, W: 100, H: 100}
	b := Rect{X: 1, Y: 2, W: 5, H: 5}
	if !a.SamePosition(b) {
		t.Fatalf("expected same position")
	}
	if a.SamePosition(Rect{X: 0, Y: 2}) {
		t.Fatalf("expected different position")
	}
}

// TestString formats as "(x,y,WxH)".
func TestString(t *testing.T) {
	got := Rect{X: 100, Y: 50, W: 800, H: 600}.String()
	if got != "(100,50,800x600)" {
		t.Fatalf("unexpected format: %s", got)
	}
}
