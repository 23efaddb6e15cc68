package display

import (
	"strings"
	"time"

	log "github.com/charmbracelet/log"
)

// defaultVerifyDelay is the pause between verified switch attempts. Drivers
// that report success before the switch takes effect usually settle within
// half a second.
const defaultVerifyDelay = 500 * time.Millisecond

// Switcher promotes a display to primary using two independent strategies
// with read-back verification. Some virtual-display drivers reject the plain
// CDS_SET_PRIMARY calls entirely, so the topology-level fallback is not
// optional.
type Switcher struct {
	backend     Backend
	registry    *Registry
	verifyDelay time.Duration
	sleep       func(time.Duration)
}

// NewSwitcher returns a switcher over the given backend.
func NewSwitcher(b Backend) *Switcher {
	return &Switcher{
		backend:     b,
		registry:    NewRegistry(b),
		verifyDelay: defaultVerifyDelay,
		sleep:       time.Sleep,
	}
}

// SetPrimary promotes the display matching token to primary. It returns false
// without side effects when the token does not resolve, and true without any
// OS call when the target is already primary.
func (s *Switcher) SetPrimary(token string) bool {
	target, ok := s.registry.Resolve(token)
	if !ok {
		log.Warnf("no display matches token %q", token)
		return false
	}
	if target.Primary {
		log.Infof("target already primary: %s", target.Name)
		return true
	}

	displays, err := s.registry.Enumerate()
	if err != nil {
		log.Warnf("display enumeration failed: %v", err)
		return false
	}

	if !s.setPrimaryDirect(target) {
		log.Infof("direct primary methods exhausted; trying topology reposition")
		return s.setPrimaryViaTopology(target.Name)
	}

	// The direct strategy moved only the target; shift the rest so the
	// arrangement stays intact relative to the new origin.
	for _, d := range displays {
		if d.Name == target.Name {
			continue
		}
		change := ModeChange{
			SetPosition: true,
			X:           d.Mode.X - target.Mode.X,
			Y:           d.Mode.Y - target.Mode.Y,
		}
		opts := ApplyOptions{Persist: true, NoReset: true}
		if err := s.backend.ApplyMode(d.Name, change, opts); err != nil {
			log.Warnf("failed repositioning %s: %v", d.Name, err)
		}
	}
	if err := s.backend.CommitStaged(); err != nil {
		log.Warnf("failed to commit display changes: %v", err)
		return false
	}
	log.Infof("primary display set using token %q", token)
	return true
}

// setPrimaryDirect runs Strategy A: three single-call reposition attempts,
// stopping at the first one the driver accepts.
func (s *Switcher) setPrimaryDirect(target Descriptor) bool {
	attempts := []struct {
		label  string
		change ModeChange
	}{
		{"keep position", ModeChange{SetPosition: true, X: target.Mode.X, Y: target.Mode.Y}},
		{"zero position", ModeChange{SetPosition: true, X: 0, Y: 0}},
		{"no position change", ModeChange{}},
	}
	opts := ApplyOptions{Persist: true, NoReset: true, SetPrimary: true}
	for _, a := range attempts {
		if err := s.backend.ApplyMode(target.Name, a.change, opts); err != nil {
			log.Warnf("primary method %q failed for %s: %v", a.label, target.Name, err)
			continue
		}
		log.Infof("primary set using method %q for %s", a.label, target.Name)
		return true
	}
	return false
}

// setPrimaryViaTopology runs Strategy B: read all active source origins,
// shift every source so the target lands at (0,0), and commit the whole
// topology as one atomic change.
func (s *Switcher) setPrimaryViaTopology(device string) bool {
	origins, err := s.backend.ActiveSourceOrigins()
	if err != nil {
		log.Warnf("could not read display topology: %v", err)
		return false
	}
	shifted, changed, found := retargetOrigins(origins, device)
	if !found {
		log.Warnf("no active source matched %s", device)
		return false
	}
	if !changed {
		log.Infof("target already at origin: %s", device)
		return true
	}
	if err := s.backend.ApplySourceOrigins(shifted); err != nil {
		log.Warnf("topology reposition failed: %v", err)
		return false
	}
	log.Infof("primary set via topology reposition: %s", device)
	return true
}

// SetPrimaryVerified wraps SetPrimary with read-back verification: only a
// device-name match on the actual current primary counts as success. Drivers
// intermittently report success without the switch taking effect, so each
// mismatch sleeps briefly and retries up to the given bound.
func (s *Switcher) SetPrimaryVerified(token string, retries int) bool {
	target, ok := s.registry.Resolve(token)
	if !ok {
		log.Warnf("no display matches token %q", token)
		return false
	}
	want := strings.TrimSpace(target.Name)

	for attempt := 1; attempt <= retries; attempt++ {
		if !s.SetPrimary(token) {
			continue
		}
		primary, ok := s.registry.Primary()
		if ok && strings.EqualFold(strings.TrimSpace(primary.Name), want) {
			log.Infof("verified primary display: %s", want)
			return true
		}
		got := "UNKNOWN"
		if ok {
			got = primary.Name
		}
		log.Warnf("primary verify failed (attempt %d/%d): expected %s, got %s",
			attempt, retries, want, got)
		s.sleep(s.verifyDelay)
	}
	return false
}

// retargetOrigins computes the origin shift that makes device the desktop
// origin. Every source moves by the same delta so displays keep their
// relative arrangement. The returned flags report whether any shift is
// needed and whether the device was present at all.
func retargetOrigins(origins []SourceOrigin, device string) (shifted []SourceOrigin, changed, found bool) {
	var dx, dy int
	for _, o := range origins {
		if strings.EqualFold(o.Device, device) {
			dx, dy = o.X, o.Y
			found = true
			break
		}
	}
	if !found {
		return nil, false, false
	}
	if dx == 0 && dy == 0 {
		return nil, false, true
	}
	shifted = make([]SourceOrigin, len(origins))
	for i, o := range origins {
		shifted[i] = SourceOrigin{Device: o.Device, X: o.X - dx, Y: o.Y - dy}
	}
	return shifted, true, true
}
