package window

import (
	"time"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

// Action reports what one enforcement pass did.
type Action int

const (
	// ActionNone means the window already matched the target geometry.
	ActionNone Action = iota
	// ActionMoved means a single corrective move was issued.
	ActionMoved
	// ActionPulsed means the move was followed by a one-pixel resize
	// pulse to force the application to notice its new geometry.
	ActionPulsed
)

// Default enforcement timings.
const (
	DefaultFastWindow  = 8 * time.Second
	DefaultPollFast    = 100 * time.Millisecond
	DefaultPollSlow    = 400 * time.Millisecond
	DefaultMissBackoff = 10
)

// EnforceConfig tunes one enforcer.
type EnforceConfig struct {
	// FastWindow is the warm-up period after the window is first seen
	// during which polling is aggressive and the resize pulse may fire.
	FastWindow time.Duration
	// PollFast and PollSlow are the tick intervals inside and outside
	// the warm-up period.
	PollFast time.Duration
	PollSlow time.Duration
	// MissBackoff is the number of consecutive misses after which
	// polling drops to the slow interval even during warm-up.
	MissBackoff int
	// PositionOnly enforces only the window origin, leaving size alone.
	PositionOnly bool
}

func (c EnforceConfig) withDefaults() EnforceConfig {
	if c.FastWindow <= 0 {
		c.FastWindow = DefaultFastWindow
	}
	if c.PollFast <= 0 {
		c.PollFast = DefaultPollFast
	}
	if c.PollSlow <= 0 {
		c.PollSlow = DefaultPollSlow
	}
	if c.MissBackoff <= 0 {
		c.MissBackoff = DefaultMissBackoff
	}
	return c
}

// Enforcer keeps one window at its target geometry. It is idempotent:
// a window already at the target produces no OS calls at all.
type Enforcer struct {
	backend Backend
	cfg     EnforceConfig
	now     func() time.Time

	firstSeen time.Time
	pulsed    bool
	misses    int
}

// NewEnforcer returns an enforcer with zero config fields defaulted.
func NewEnforcer(backend Backend, cfg EnforceConfig) *Enforcer {
	return &Enforcer{backend: backend, cfg: cfg.withDefaults(), now: time.Now}
}

// NoteFound records that the target window was located this tick. The
// first sighting starts the warm-up clock.
func (e *Enforcer) NoteFound() {
	if e.firstSeen.IsZero() {
		e.firstSeen = e.now()
	}
	e.misses = 0
}

// NoteMiss records that the target window was not found this tick.
func (e *Enforcer) NoteMiss() { e.misses++ }

// Reset forgets all progress so a relaunched process gets a fresh
// warm-up period and pulse.
func (e *Enforcer) Reset() {
	e.firstSeen = time.Time{}
	e.pulsed = false
	e.misses = 0
}

func (e *Enforcer) warm() bool {
	return !e.firstSeen.IsZero() && e.now().Sub(e.firstSeen) < e.cfg.FastWindow
}

// Interval returns how long to sleep before the next tick.
func (e *Enforcer) Interval() time.Duration {
	if e.warm() && e.misses < e.cfg.MissBackoff {
		return e.cfg.PollFast
	}
	return e.cfg.PollSlow
}

// Enforce compares the window against target and corrects it if needed.
// During warm-up the first correction of a full-geometry target is a
// pulse: move to target, grow by one pixel, shrink back. The pulse
// fires at most once over the enforcer's lifetime.
func (e *Enforcer) Enforce(h Handle, current, target geom.Rect) (Action, error) {
	if e.cfg.PositionOnly {
		if current.SamePosition(target) {
			return ActionNone, nil
		}
	} else if current == target {
		return ActionNone, nil
	}

	pulse := !e.cfg.PositionOnly && !e.pulsed && e.warm()
	if err := e.backend.Move(h, target, e.cfg.PositionOnly); err != nil {
		return ActionNone, err
	}
	if !pulse {
		return ActionMoved, nil
	}

	e.pulsed = true
	grown := target
	grown.W++
	grown.H++
	if err := e.backend.Move(h, grown, false); err != nil {
		return ActionPulsed, err
	}
	if err := e.backend.Move(h, target, false); err != nil {
		return ActionPulsed, err
	}
	return ActionPulsed, nil
}
