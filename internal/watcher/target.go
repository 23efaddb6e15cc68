package watcher

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/config"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/launcher"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/window"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/winproc"
)

// Target is the runtime state of one tracked window.
type Target struct {
	Spec config.TargetSpec
	// Proc is the child we spawned for this target, nil in attach mode.
	Proc *launcher.Process

	enforcer   *window.Enforcer
	lastHandle window.Handle
	paused     bool
	everSeen   bool
}

// newTarget builds a target with per-spec timing overrides applied over
// the session defaults.
func newTarget(spec config.TargetSpec, proc *launcher.Process, backend window.Backend, defaults window.EnforceConfig) *Target {
	cfg := defaults
	cfg.PositionOnly = spec.PositionOnly
	if d := spec.FastWindow.Std(); d > 0 {
		cfg.FastWindow = d
	}
	if d := spec.PollFast.Std(); d > 0 {
		cfg.PollFast = d
	}
	if d := spec.PollSlow.Std(); d > 0 {
		cfg.PollSlow = d
	}
	return &Target{
		Spec:     spec,
		Proc:     proc,
		enforcer: window.NewEnforcer(backend, cfg),
	}
}

// family resolves the target's process-id family from a snapshot. The
// result is nil when the target has no process identity at all, meaning
// the window filters alone decide.
func (t *Target) family(procs []winproc.Process) mapset.Set[uint32] {
	var root uint32
	switch {
	case t.Proc != nil && !t.Proc.Exited():
		root = t.Proc.PID()
	case len(t.Spec.ProcessNames) > 0:
		pids := winproc.PIDsByName(procs, t.Spec.ProcessNames)
		if len(pids) == 0 {
			// Named process not running: an empty set matches no
			// window directly, leaving only the name allow-list.
			return mapset.NewSet[uint32]()
		}
		root = pids[0]
	default:
		return nil
	}
	return winproc.Family(procs, root)
}

// processAlive reports whether the target's process identity is still
// running. A direct spawned child counts first; after it exits the image
// names cover launchers that replace themselves with a new process.
// Targets without any process identity are always considered alive.
func (t *Target) processAlive(procs []winproc.Process) bool {
	if t.Proc != nil && !t.Proc.Exited() {
		return true
	}
	if len(t.Spec.ProcessNames) > 0 {
		return winproc.AnyRunning(procs, t.Spec.ProcessNames)
	}
	return t.Proc == nil
}

// filters builds the window locator filters for this target.
func (t *Target) filters(procs []winproc.Process) window.Filters {
	return window.Filters{
		PIDs:             t.family(procs),
		ProcessNames:     t.Spec.ProcessNames,
		ClassContains:    t.Spec.ClassContains,
		TitleContains:    t.Spec.TitleContains,
		IncludeMinimized: t.Spec.IncludeMinimized,
	}
}
