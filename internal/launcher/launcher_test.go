package launcher

import (
	"runtime"
	"testing"
	"time"
)

// TestSpawn_MissingExecutable verifies a bad path fails up front.
func TestSpawn_MissingExecutable(t *testing.T) {
	if _, err := Spawn("/does/not/exist", "", nil); err == nil {
		t.Fatalf("expected error for missing executable")
	}
}

// TestProcess_ExitObserved verifies a short-lived child is reported as exited.
func TestProcess_ExitObserved(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	p, err := Spawn("sh", "", []string{"-c", "exit 0"})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if p.PID() == 0 {
		t.Fatalf("expected a nonzero pid")
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !p.Exited() {
		t.Fatalf("expected Exited after Wait")
	}
}

// TestProcess_StopKillsChild verifies Stop terminates a lingering child.
func TestProcess_StopKillsChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	p, err := Spawn("sh", "", []string{"-c", "sleep 30"})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if p.Exited() {
		t.Fatalf("expected child to still be running")
	}
	start := time.Now()
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("Stop took too long")
	}
	if !p.Exited() {
		t.Fatalf("expected Exited after Stop")
	}
}
