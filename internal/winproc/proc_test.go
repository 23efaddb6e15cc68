package winproc

import "testing"

func sampleProcs() []Process {
	return []Process{
		{PID: 4, PPID: 0, Name: "System"},
		{PID: 100, PPID: 4, Name: "launcher.exe"},
		{PID: 200, PPID: 100, Name: "Game.EXE"},
		{PID: 300, PPID: 200, Name: "helper.exe"},
		{PID: 400, PPID: 4, Name: "unrelated.exe"},
	}
}

// TestPIDsByName_CaseInsensitive verifies image names match regardless of case.
func TestPIDsByName_CaseInsensitive(t *testing.T) {
	pids := PIDsByName(sampleProcs(), []string{"game.exe"})
	if len(pids) != 1 || pids[0] != 200 {
		t.Fatalf("expected [200], got %v", pids)
	}
}

// TestPIDsByName_NoNames verifies an empty name list matches nothing.
func TestPIDsByName_NoNames(t *testing.T) {
	if pids := PIDsByName(sampleProcs(), nil); pids != nil {
		t.Fatalf("expected nil, got %v", pids)
	}
}

// TestAnyRunning verifies liveness checks over the snapshot.
func TestAnyRunning(t *testing.T) {
	if !AnyRunning(sampleProcs(), []string{"helper.exe"}) {
		t.Fatalf("expected helper.exe to be running")
	}
	if AnyRunning(sampleProcs(), []string{"gone.exe"}) {
		t.Fatalf("expected gone.exe to be absent")
	}
}

// TestFamily_Descendants verifies the family includes indirect children.
func TestFamily_Descendants(t *testing.T) {
	family := Family(sampleProcs(), 100)
	for _, pid := range []uint32{100, 200, 300} {
		if !family.Contains(pid) {
			t.Fatalf("expected %d in family, got %v", pid, family)
		}
	}
	if family.Contains(400) {
		t.Fatalf("did not expect 400 in family, got %v", family)
	}
}

// TestFamily_CycleGuard verifies PID-reuse cycles do not hang the walk.
func TestFamily_CycleGuard(t *testing.T) {
	procs := []Process{
		{PID: 10, PPID: 20, Name: "a.exe"},
		{PID: 20, PPID: 10, Name: "b.exe"},
	}
	family := Family(procs, 10)
	if !family.Contains(10) || !family.Contains(20) {
		t.Fatalf("expected both PIDs in family, got %v", family)
	}
}

// TestNameOf verifies lookup returns lower-cased names and "" on miss.
func TestNameOf(t *testing.T) {
	if name := NameOf(sampleProcs(), 200); name != "game.exe" {
		t.Fatalf("expected game.exe, got %q", name)
	}
	if name := NameOf(sampleProcs(), 999); name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
}
