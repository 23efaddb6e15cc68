package display

import "testing"

func twoDisplays() *fakeBackend {
	return &fakeBackend{
		devices: []Device{
			{Name: `\\.\DISPLAY1`, Description: "NVIDIA GeForce", Monitors: []string{"Generic PnP Monitor"}, Attached: true, Primary: true},
			{Name: `\\.\DISPLAY2`, Description: "NVIDIA GeForce", Monitors: []string{"CRT EMUDRIVER"}, Attached: true},
			{Name: `\\.\DISPLAY3`, Description: "Ghost Adapter", Attached: false},
		},
		modes: map[string]Mode{
			`\\.\DISPLAY1`: {Width: 1920, Height: 1080, RefreshHz: 60, X: 0, Y: 0},
			`\\.\DISPLAY2`: {Width: 640, Height: 480, RefreshHz: 60, X: 1920, Y: 0},
		},
	}
}

// TestRegistry_ResolveByMonitorString verifies tokens match attached monitor
// names case-insensitively.
func TestRegistry_ResolveByMonitorString(t *testing.T) {
	r := NewRegistry(twoDisplays())
	d, ok := r.Resolve("emudriver")
	if !ok {
		t.Fatalf("expected a match")
	}
	if d.Name != `\\.\DISPLAY2` {
		t.Fatalf("expected DISPLAY2, got %s", d.Name)
	}
}

// TestRegistry_ResolveFirstInOrder verifies an ambiguous token resolves to
// the first display in enumeration order.
func TestRegistry_ResolveFirstInOrder(t *testing.T) {
	r := NewRegistry(twoDisplays())
	d, ok := r.Resolve("nvidia")
	if !ok || d.Name != `\\.\DISPLAY1` {
		t.Fatalf("expected DISPLAY1, got %+v ok=%v", d, ok)
	}
}

// TestRegistry_ResolveMiss verifies an unmatched token returns false.
func TestRegistry_ResolveMiss(t *testing.T) {
	r := NewRegistry(twoDisplays())
	if _, ok := r.Resolve("plasma"); ok {
		t.Fatalf("expected no match")
	}
	if _, ok := r.Resolve(""); ok {
		t.Fatalf("expected empty token to never match")
	}
}

// TestRegistry_ResolveSkipsDetached verifies detached adapters are invisible
// to token resolution.
func TestRegistry_ResolveSkipsDetached(t *testing.T) {
	r := NewRegistry(twoDisplays())
	if _, ok := r.Resolve("ghost"); ok {
		t.Fatalf("expected detached adapter to be skipped")
	}
}

// TestRegistry_EnumerateAllIncludesDetached verifies the recovery view keeps
// detached adapters.
func TestRegistry_EnumerateAllIncludesDetached(t *testing.T) {
	r := NewRegistry(twoDisplays())
	all, err := r.EnumerateAll()
	if err != nil {
		t.Fatalf("EnumerateAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(all))
	}
	attached, err := r.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(attached) != 2 {
		t.Fatalf("expected 2 attached descriptors, got %d", len(attached))
	}
}

// TestRegistry_Primary verifies the primary flag is reported.
func TestRegistry_Primary(t *testing.T) {
	r := NewRegistry(twoDisplays())
	p, ok := r.Primary()
	if !ok || p.Name != `\\.\DISPLAY1` {
		t.Fatalf("expected DISPLAY1 primary, got %+v ok=%v", p, ok)
	}
}
