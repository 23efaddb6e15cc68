// Package watcher runs the session loop that keeps tracked windows at
// their target geometry and reacts to console interrupts.
package watcher

import (
	"context"
	"sync"
	"time"

	log "github.com/charmbracelet/log"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/config"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/cursor"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/launcher"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/stopflag"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/window"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/winproc"
)

// State is the session lifecycle state.
type State int

const (
	// StateActive means windows are being enforced.
	StateActive State = iota
	// StatePaused means a soft stop parked the secondary windows and
	// enforcement is suspended until the next interrupt.
	StatePaused
	// StateShuttingDown means the loop is unwinding for exit.
	StateShuttingDown
)

// Options configures a session.
type Options struct {
	// Hold is the shared interrupt threshold: a second interrupt
	// within it means shut down, one beyond it re-arms or resumes.
	Hold time.Duration
	// RestoreRect is where windows are parked on soft stop and on
	// shutdown, normally a spot on the desktop primary.
	RestoreRect geom.Rect
	// Defaults are the enforcement timings targets inherit.
	Defaults window.EnforceConfig
	// ForceCursor re-asserts cursor visibility every tick.
	ForceCursor bool
}

// Session owns the enforcement loop for a set of targets.
type Session struct {
	backend window.Backend
	locator *window.Locator
	procs   winproc.Lister
	flag    *stopflag.Flag
	opts    Options
	targets []*Target

	now   func() time.Time
	sleep func(time.Duration)

	mu         sync.Mutex
	pending    bool
	signalAt   time.Time
	prevSignal time.Time

	state State
}

// NewSession builds a session over the given OS surfaces.
func NewSession(backend window.Backend, procs winproc.Lister, flag *stopflag.Flag, opts Options) *Session {
	if opts.Hold <= 0 {
		opts.Hold = 8 * time.Second
	}
	return &Session{
		backend: backend,
		locator: window.NewLocator(backend, procs),
		procs:   procs,
		flag:    flag,
		opts:    opts,
		now:     time.Now,
		sleep:   time.Sleep,
		state:   StateActive,
	}
}

// AddTarget registers a target, optionally bound to a spawned process.
func (s *Session) AddTarget(spec config.TargetSpec, proc *launcher.Process) {
	s.targets = append(s.targets, newTarget(spec, proc, s.backend, s.opts.Defaults))
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interrupt records a console interrupt. It only stores the signal and
// its timestamp; all policy runs on the loop goroutine, so the handler
// is safe to call from a signal context.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		// Keep the older timestamp as the pair's first half.
		s.prevSignal = s.signalAt
	} else {
		s.prevSignal, s.signalAt = s.signalAt, time.Time{}
	}
	s.signalAt = s.now()
	s.pending = true
}

// takeSignal consumes a pending interrupt, returning its timestamp and
// the previous signal's timestamp.
func (s *Session) takeSignal() (at, prev time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return time.Time{}, time.Time{}, false
	}
	s.pending = false
	return s.signalAt, s.prevSignal, true
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// WaitForWindows blocks until every target with a process identity shows a
// window, or the grace period passes. The loop itself tolerates windows that
// appear late; this only keeps a slow-starting child from spending its whole
// warm-up period invisible.
func (s *Session) WaitForWindows(grace time.Duration) {
	deadline := s.now().Add(grace)
	interval := s.opts.Defaults.PollSlow
	if interval <= 0 {
		interval = window.DefaultPollSlow
	}
	for s.now().Before(deadline) {
		procs, err := s.procs.Processes()
		if err != nil {
			log.Debugf("process snapshot failed: %v", err)
		}
		waiting := 0
		for _, t := range s.targets {
			if t.Proc == nil && len(t.Spec.ProcessNames) == 0 {
				continue
			}
			if _, found := s.locator.Find(t.filters(procs)); !found {
				waiting++
			}
		}
		if waiting == 0 {
			return
		}
		s.sleep(interval)
	}
	log.Warnf("grace period expired with windows still missing")
}

// Run drives the session until shutdown. It clears any stale stop flag,
// then ticks: consume at most one interrupt, check primary liveness,
// enforce every active target, and sleep the shortest interval any
// active target wants.
func (s *Session) Run(ctx context.Context) error {
	if s.flag.Present() {
		log.Infof("removing stale stop flag at %s", s.flag.Path())
		if err := s.flag.Clear(); err != nil {
			log.Warnf("could not clear stop flag: %v", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			s.setState(StateShuttingDown)
			s.shutdown()
			return err
		}

		if at, prev, ok := s.takeSignal(); ok {
			s.handleSignal(at, prev)
		}
		if s.State() == StateShuttingDown {
			s.shutdown()
			return nil
		}

		procs, err := s.procs.Processes()
		if err != nil {
			log.Debugf("process snapshot failed: %v", err)
		}

		if !s.primaryAlive(procs) {
			log.Infof("primary process exited, shutting down")
			s.setState(StateShuttingDown)
			s.shutdown()
			return nil
		}

		if s.opts.ForceCursor {
			cursor.ForceVisible()
		}

		interval := s.opts.Defaults.PollSlow
		if interval <= 0 {
			interval = window.DefaultPollSlow
		}
		for _, t := range s.targets {
			if t.paused {
				s.reapPaused(t, procs)
				continue
			}
			if s.State() == StatePaused {
				continue
			}
			s.enforceTarget(t, procs)
			if iv := t.enforcer.Interval(); iv < interval {
				interval = iv
			}
		}

		s.sleep(interval)
	}
}

// handleSignal applies interrupt policy on the loop goroutine.
func (s *Session) handleSignal(at, prev time.Time) {
	if !prev.IsZero() && at.Sub(prev) <= s.opts.Hold {
		log.Infof("second interrupt within %s, shutting down", s.opts.Hold)
		s.setState(StateShuttingDown)
		return
	}
	switch s.State() {
	case StatePaused:
		s.resume()
	default:
		s.softStop()
	}
}

// softStop parks every secondary window at the restore rect, pauses
// their enforcement and writes the stop flag. With nothing to pause the
// interrupt means plain shutdown.
func (s *Session) softStop() {
	parked := 0
	for _, t := range s.targets {
		if t.Spec.Primary {
			continue
		}
		if t.lastHandle != 0 && s.backend.IsWindow(t.lastHandle) {
			if err := s.backend.Move(t.lastHandle, s.opts.RestoreRect, false); err != nil {
				log.Warnf("could not park %s: %v", t.Spec.Slug, err)
			} else {
				parked++
			}
		}
		t.paused = true
		t.enforcer.Reset()
	}
	if parked == 0 {
		log.Infof("interrupt with nothing to pause, shutting down")
		s.setState(StateShuttingDown)
		return
	}
	if err := s.flag.Write(); err != nil {
		log.Warnf("could not write stop flag: %v", err)
	}
	log.Infof("soft stop: parked %d window(s), interrupt again after %s to resume", parked, s.opts.Hold)
	s.setState(StatePaused)
}

// resume lifts a soft stop: paused targets re-enter enforcement with a
// fresh warm-up and the stop flag is removed.
func (s *Session) resume() {
	for _, t := range s.targets {
		if t.paused {
			t.paused = false
			t.enforcer.Reset()
		}
	}
	if err := s.flag.Clear(); err != nil {
		log.Warnf("could not clear stop flag: %v", err)
	}
	log.Infof("resumed enforcement")
	s.setState(StateActive)
}

// reapPaused un-pauses a parked target whose process family has exited,
// so a relaunch is picked up and enforced again.
func (s *Session) reapPaused(t *Target, procs []winproc.Process) {
	if t.processAlive(procs) {
		return
	}
	log.Infof("paused target %s exited, re-arming", t.Spec.Slug)
	t.paused = false
	t.lastHandle = 0
	t.enforcer.Reset()
}

// enforceTarget locates the target's window and corrects its geometry.
// Every failure degrades to a logged miss.
func (s *Session) enforceTarget(t *Target, procs []winproc.Process) {
	info, found := s.locator.Find(t.filters(procs))
	if !found {
		t.enforcer.NoteMiss()
		if t.lastHandle != 0 && !s.backend.IsWindow(t.lastHandle) {
			t.lastHandle = 0
		}
		return
	}
	if !t.everSeen {
		log.Infof("located %s: %q class=%q at %s", t.Spec.Slug, info.Title, info.Class, info.Rect)
		t.everSeen = true
	}
	t.lastHandle = info.Handle
	t.enforcer.NoteFound()

	action, err := t.enforcer.Enforce(info.Handle, info.Rect, t.Spec.Rect)
	if err != nil {
		log.Warnf("enforcement failed for %s: %v", t.Spec.Slug, err)
		return
	}
	switch action {
	case window.ActionMoved:
		log.Debugf("moved %s to %s", t.Spec.Slug, t.Spec.Rect)
	case window.ActionPulsed:
		log.Debugf("pulsed %s at %s", t.Spec.Slug, t.Spec.Rect)
	}
}

// primaryAlive reports whether the session's primary process is still
// running. With no explicit primary the first spawned or named target
// counts; with none at all the session runs until interrupted.
func (s *Session) primaryAlive(procs []winproc.Process) bool {
	var primary *Target
	for _, t := range s.targets {
		if t.Spec.Primary {
			primary = t
			break
		}
	}
	if primary == nil {
		for _, t := range s.targets {
			if t.Proc != nil || len(t.Spec.ProcessNames) > 0 {
				primary = t
				break
			}
		}
	}
	if primary == nil {
		return true
	}
	return primary.processAlive(procs)
}

// shutdown parks every tracked window at the restore rect, gives the
// moves one slow interval to land and writes the stop flag.
func (s *Session) shutdown() {
	for _, t := range s.targets {
		if t.lastHandle == 0 || !s.backend.IsWindow(t.lastHandle) {
			continue
		}
		if err := s.backend.Move(t.lastHandle, s.opts.RestoreRect, false); err != nil {
			log.Warnf("could not park %s on shutdown: %v", t.Spec.Slug, err)
		}
	}
	interval := s.opts.Defaults.PollSlow
	if interval <= 0 {
		interval = window.DefaultPollSlow
	}
	s.sleep(interval)
	if err := s.flag.Write(); err != nil {
		log.Warnf("could not write stop flag: %v", err)
	}
}
