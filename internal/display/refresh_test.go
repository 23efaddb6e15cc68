package display

import "testing"

// TestSetRefresh_AlreadyCorrect verifies a matching rate is a no-op success.
func TestSetRefresh_AlreadyCorrect(t *testing.T) {
	f := twoDisplays()
	c := NewCorrector(f)
	if !c.SetRefresh("emudriver", 60) {
		t.Fatalf("expected success")
	}
	if len(f.applies) != 0 {
		t.Fatalf("expected no OS calls, got %d", len(f.applies))
	}
}

// TestSetRefresh_TransientFirst verifies the transient commit is tried before
// the registry-persistent one.
func TestSetRefresh_TransientFirst(t *testing.T) {
	f := twoDisplays()
	c := NewCorrector(f)
	if !c.SetRefresh("emudriver", 50) {
		t.Fatalf("expected success")
	}
	if len(f.applies) != 1 {
		t.Fatalf("expected one apply, got %d", len(f.applies))
	}
	a := f.applies[0]
	if a.Opts.Persist || !a.Change.SetRefresh || a.Change.RefreshHz != 50 {
		t.Fatalf("expected transient refresh change, got %+v", a)
	}
}

// TestSetRefresh_PersistFallback verifies a rejected transient commit falls
// back to a persistent one.
func TestSetRefresh_PersistFallback(t *testing.T) {
	f := twoDisplays()
	f.failTransient = true
	c := NewCorrector(f)
	if !c.SetRefresh("emudriver", 50) {
		t.Fatalf("expected success via persistent commit")
	}
	if len(f.applies) != 2 {
		t.Fatalf("expected two applies, got %d", len(f.applies))
	}
	if f.applies[0].Opts.Persist || !f.applies[1].Opts.Persist {
		t.Fatalf("expected transient then persistent, got %+v", f.applies)
	}
}

// TestSetRefresh_UnknownToken verifies an unresolved token degrades to false.
func TestSetRefresh_UnknownToken(t *testing.T) {
	f := twoDisplays()
	c := NewCorrector(f)
	if c.SetRefresh("plasma", 50) {
		t.Fatalf("expected failure")
	}
}

// TestSaveRestoreMode verifies a saved mode round-trips through RestoreMode.
func TestSaveRestoreMode(t *testing.T) {
	f := twoDisplays()
	c := NewCorrector(f)
	saved, ok := c.SaveMode("emudriver")
	if !ok {
		t.Fatalf("expected save to succeed")
	}
	if saved.DeviceName != `\\.\DISPLAY2` || saved.Mode.Width != 640 {
		t.Fatalf("unexpected saved mode: %+v", saved)
	}

	f.modes[`\\.\DISPLAY2`] = Mode{Width: 320, Height: 240, RefreshHz: 50, X: 1920}
	if !c.RestoreMode(saved) {
		t.Fatalf("expected restore to succeed")
	}
	got := f.modes[`\\.\DISPLAY2`]
	if got.Width != 640 || got.Height != 480 || got.RefreshHz != 60 {
		t.Fatalf("expected 640x480@60 restored, got %+v", got)
	}
}

// TestRestoreMode_RejectsEmpty verifies a zero-value saved mode is refused.
func TestRestoreMode_RejectsEmpty(t *testing.T) {
	c := NewCorrector(twoDisplays())
	if c.RestoreMode(SavedMode{}) {
		t.Fatalf("expected refusal")
	}
}
