package display

import (
	log "github.com/charmbracelet/log"
)

// Corrector compares and corrects a display's refresh rate. Commits are tried
// transient-first: some GPU drivers reject registry-persistent commits while
// the device is still settling after a primary switch.
type Corrector struct {
	backend  Backend
	registry *Registry
}

// NewCorrector returns a corrector over the given backend.
func NewCorrector(b Backend) *Corrector {
	return &Corrector{backend: b, registry: NewRegistry(b)}
}

// SetRefresh corrects the refresh rate of the display matching token. Already
// running at hz is a no-op success. Returns false, never errors, when the
// token does not resolve or both commit strategies are rejected.
func (c *Corrector) SetRefresh(token string, hz int) bool {
	d, ok := c.registry.Resolve(token)
	if !ok {
		log.Warnf("no display matches refresh token %q", token)
		return false
	}
	if d.Mode.RefreshHz == hz {
		return true
	}
	change := ModeChange{SetRefresh: true, RefreshHz: hz}
	if !c.apply(d.Name, change) {
		log.Warnf("failed to correct refresh from %d Hz to %d Hz on %s",
			d.Mode.RefreshHz, hz, d.Name)
		return false
	}
	log.Infof("refresh corrected: %d Hz -> %d Hz on %s", d.Mode.RefreshHz, hz, d.Name)
	return true
}

// SaveMode captures the full current mode of the display matching token for
// later restoration.
func (c *Corrector) SaveMode(token string) (SavedMode, bool) {
	d, ok := c.registry.Resolve(token)
	if !ok {
		return SavedMode{}, false
	}
	return SavedMode{DeviceName: d.Name, Mode: d.Mode}, true
}

// RestoreMode applies a previously saved display mode. Width, height, and
// refresh are set together so the committed mode is valid.
func (c *Corrector) RestoreMode(saved SavedMode) bool {
	if saved.DeviceName == "" || saved.Mode.Width == 0 || saved.Mode.Height == 0 || saved.Mode.RefreshHz == 0 {
		return false
	}
	change := ModeChange{
		SetSize:    true,
		Width:      saved.Mode.Width,
		Height:     saved.Mode.Height,
		SetRefresh: true,
		RefreshHz:  saved.Mode.RefreshHz,
	}
	if !c.apply(saved.DeviceName, change) {
		log.Warnf("mode restore failed on %s", saved.DeviceName)
		return false
	}
	log.Infof("mode restored: %dx%d@%dHz on %s",
		saved.Mode.Width, saved.Mode.Height, saved.Mode.RefreshHz, saved.DeviceName)
	return true
}

// apply commits a mode change, trying the transient flag first and falling
// back to a registry-persistent commit.
func (c *Corrector) apply(device string, change ModeChange) bool {
	for _, persist := range []bool{false, true} {
		err := c.backend.ApplyMode(device, change, ApplyOptions{Persist: persist})
		if err == nil {
			return true
		}
		log.Debugf("mode commit (persist=%v) rejected on %s: %v", persist, device, err)
	}
	return false
}
