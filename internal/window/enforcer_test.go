package window

import (
	"testing"
	"time"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

// recordBackend counts moves without touching the OS.
type recordBackend struct {
	moves   []geom.Rect
	posOnly []bool
}

func (r *recordBackend) TopLevel() ([]Info, error) { return nil, nil }

func (r *recordBackend) Move(_ Handle, rect geom.Rect, positionOnly bool) error {
	r.moves = append(r.moves, rect)
	r.posOnly = append(r.posOnly, positionOnly)
	return nil
}

func (r *recordBackend) IsWindow(Handle) bool { return true }

func newTestEnforcer(b Backend, cfg EnforceConfig) (*Enforcer, *time.Time) {
	e := NewEnforcer(b, cfg)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	e.now = func() time.Time { return clock }
	return e, &clock
}

var target = geom.Rect{X: 100, Y: 50, W: 800, H: 600}

// TestEnforce_AtTargetIsSilent verifies a matching window produces zero OS
// calls.
func TestEnforce_AtTargetIsSilent(t *testing.T) {
	b := &recordBackend{}
	e, _ := newTestEnforcer(b, EnforceConfig{})
	e.NoteFound()
	action, err := e.Enforce(1, target, target)
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if action != ActionNone || len(b.moves) != 0 {
		t.Fatalf("expected silence, got action %v with %d moves", action, len(b.moves))
	}
}

// TestEnforce_PulsesOnceDuringWarmup verifies the first warm-up correction is
// a three-move pulse and later corrections are single moves.
func TestEnforce_PulsesOnceDuringWarmup(t *testing.T) {
	b := &recordBackend{}
	e, _ := newTestEnforcer(b, EnforceConfig{})
	e.NoteFound()

	off := geom.Rect{X: 0, Y: 0, W: 640, H: 480}
	action, err := e.Enforce(1, off, target)
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if action != ActionPulsed {
		t.Fatalf("expected pulse, got %v", action)
	}
	if len(b.moves) != 3 {
		t.Fatalf("expected 3 moves for the pulse, got %d", len(b.moves))
	}
	grown := target
	grown.W++
	grown.H++
	if b.moves[0] != target || b.moves[1] != grown || b.moves[2] != target {
		t.Fatalf("unexpected pulse sequence: %+v", b.moves)
	}

	// Still mismatched on the next tick: exactly one more move.
	action, err = e.Enforce(1, off, target)
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if action != ActionMoved || len(b.moves) != 4 {
		t.Fatalf("expected single corrective move, got action %v with %d moves", action, len(b.moves))
	}
}

// TestEnforce_NoPulseAfterWarmup verifies corrections outside the warm-up
// window never pulse.
func TestEnforce_NoPulseAfterWarmup(t *testing.T) {
	b := &recordBackend{}
	e, clock := newTestEnforcer(b, EnforceConfig{FastWindow: 8 * time.Second})
	e.NoteFound()
	*clock = clock.Add(9 * time.Second)

	off := geom.Rect{X: 0, Y: 0, W: 640, H: 480}
	action, err := e.Enforce(1, off, target)
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if action != ActionMoved || len(b.moves) != 1 {
		t.Fatalf("expected one plain move, got action %v with %d moves", action, len(b.moves))
	}
}

// TestEnforce_PositionOnly verifies only the origin is compared and the move
// keeps the window's size.
func TestEnforce_PositionOnly(t *testing.T) {
	b := &recordBackend{}
	e, _ := newTestEnforcer(b, EnforceConfig{PositionOnly: true})
	e.NoteFound()

	sameSpotDifferentSize := geom.Rect{X: 100, Y: 50, W: 320, H: 240}
	if action, _ := e.Enforce(1, sameSpotDifferentSize, target); action != ActionNone {
		t.Fatalf("expected silence for matching origin, got %v", action)
	}

	off := geom.Rect{X: 0, Y: 0, W: 320, H: 240}
	action, err := e.Enforce(1, off, target)
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if action != ActionMoved || len(b.moves) != 1 || !b.posOnly[0] {
		t.Fatalf("expected one position-only move, got action %v moves %+v posOnly %+v", action, b.moves, b.posOnly)
	}
}

// TestInterval_FastDuringWarmup verifies the poll cadence decays from fast to
// slow as warm-up expires.
func TestInterval_FastDuringWarmup(t *testing.T) {
	e, clock := newTestEnforcer(&recordBackend{}, EnforceConfig{
		FastWindow: 8 * time.Second,
		PollFast:   100 * time.Millisecond,
		PollSlow:   400 * time.Millisecond,
	})
	if e.Interval() != 400*time.Millisecond {
		t.Fatalf("expected slow poll before first sighting, got %v", e.Interval())
	}
	e.NoteFound()
	if e.Interval() != 100*time.Millisecond {
		t.Fatalf("expected fast poll during warm-up, got %v", e.Interval())
	}
	*clock = clock.Add(9 * time.Second)
	if e.Interval() != 400*time.Millisecond {
		t.Fatalf("expected slow poll after warm-up, got %v", e.Interval())
	}
}

// TestInterval_MissBackoff verifies repeated misses drop the cadence even
// inside the warm-up window.
func TestInterval_MissBackoff(t *testing.T) {
	e, _ := newTestEnforcer(&recordBackend{}, EnforceConfig{
		PollFast:    100 * time.Millisecond,
		PollSlow:    400 * time.Millisecond,
		MissBackoff: 3,
	})
	e.NoteFound()
	for i := 0; i < 3; i++ {
		e.NoteMiss()
	}
	if e.Interval() != 400*time.Millisecond {
		t.Fatalf("expected miss backoff to slow polling, got %v", e.Interval())
	}
	e.NoteFound()
	if e.Interval() != 100*time.Millisecond {
		t.Fatalf("expected a sighting to restore fast polling, got %v", e.Interval())
	}
}

// TestReset_ReArmsPulse verifies Reset grants a relaunched process a fresh
// warm-up and pulse.
func TestReset_ReArmsPulse(t *testing.T) {
	b := &recordBackend{}
	e, _ := newTestEnforcer(b, EnforceConfig{})
	e.NoteFound()
	off := geom.Rect{X: 0, Y: 0, W: 640, H: 480}
	if action, _ := e.Enforce(1, off, target); action != ActionPulsed {
		t.Fatalf("expected initial pulse")
	}
	e.Reset()
	e.NoteFound()
	if action, _ := e.Enforce(2, off, target); action != ActionPulsed {
		t.Fatalf("expected pulse again after reset")
	}
}
