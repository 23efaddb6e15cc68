// Package display resolves display tokens and drives primary/refresh changes.
package display

import (
	"strings"

	log "github.com/charmbracelet/log"
)

// Mode is the current mode of a display source: resolution, refresh rate, and
// position of its top-left corner on the virtual desktop.
type Mode struct {
	Width     int
	Height    int
	RefreshHz int
	X         int
	Y         int
}

// Device is one display adapter as reported by the OS.
type Device struct {
	Name        string // GDI device path, e.g. `\\.\DISPLAY1`
	Description string // adapter description string
	Monitors    []string
	Attached    bool
	Primary     bool
}

// Descriptor is a device joined with its current mode. Descriptors are read
// fresh from the OS on every query and must not be cached across ticks:
// topology can change at any time (cable unplug, driver re-attach).
type Descriptor struct {
	Device
	Mode Mode
}

// SavedMode is a display mode captured for later restoration.
type SavedMode struct {
	DeviceName string
	Mode       Mode
}

// ModeChange describes the fields of a mode record to modify. Unset fields
// keep their current value.
type ModeChange struct {
	SetPosition bool
	X, Y        int
	SetSize     bool
	Width       int
	Height      int
	SetRefresh  bool
	RefreshHz   int
}

// ApplyOptions controls how a mode change is committed.
type ApplyOptions struct {
	Persist    bool // save the change to the registry database
	NoReset    bool // stage only; apply later via CommitStaged
	SetPrimary bool // mark the device as the new primary
}

// SourceOrigin is the desktop position of one active display source.
type SourceOrigin struct {
	Device string
	X, Y   int
}

// Backend is the OS display-configuration surface. The raw fixed-layout OS
// records stay inside each implementation; nothing above this interface sees
// them.
type Backend interface {
	// Devices lists all display adapters in OS enumeration order, including
	// ones not attached to the desktop.
	Devices() ([]Device, error)
	// CurrentMode reads the current mode of a device.
	CurrentMode(device string) (Mode, error)
	// ApplyMode issues one atomic mode-change call for a device.
	ApplyMode(device string, change ModeChange, opts ApplyOptions) error
	// CommitStaged applies all changes staged with ApplyOptions.NoReset.
	CommitStaged() error
	// ActiveSourceOrigins reads the origins of all active display sources
	// from the OS topology.
	ActiveSourceOrigins() ([]SourceOrigin, error)
	// ApplySourceOrigins commits new origins for all active sources as one
	// atomic configuration change.
	ApplySourceOrigins(origins []SourceOrigin) error
}

// Registry enumerates displays and resolves human-readable tokens to devices.
type Registry struct {
	backend Backend
}

// NewRegistry returns a registry over the given backend.
func NewRegistry(b Backend) *Registry {
	return &Registry{backend: b}
}

// Enumerate returns descriptors for displays currently attached to the
// desktop, in OS enumeration order.
func (r *Registry) Enumerate() ([]Descriptor, error) {
	return r.enumerate(false)
}

// EnumerateAll additionally returns adapters that exist but are not attached
// to the desktop. Only recovery flows need this; the steady-state path uses
// Enumerate.
func (r *Registry) EnumerateAll() ([]Descriptor, error) {
	return r.enumerate(true)
}

func (r *Registry) enumerate(includeDetached bool) ([]Descriptor, error) {
	devices, err := r.backend.Devices()
	if err != nil {
		return nil, err
	}
	var out []Descriptor
	for _, dev := range devices {
		if !dev.Attached && !includeDetached {
			continue
		}
		d := Descriptor{Device: dev}
		if mode, err := r.backend.CurrentMode(dev.Name); err == nil {
			d.Mode = mode
		} else if dev.Attached {
			log.Warnf("could not read display mode for %s: %v", dev.Name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Resolve returns the first attached display whose device name, description,
// or any attached-monitor name contains token as a case-insensitive
// substring. A miss returns false; Resolve never errors.
func (r *Registry) Resolve(token string) (Descriptor, bool) {
	displays, err := r.Enumerate()
	if err != nil {
		log.Warnf("display enumeration failed: %v", err)
		return Descriptor{}, false
	}
	want := strings.ToLower(token)
	for _, d := range displays {
		if matchesToken(d, want) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ModeOf returns the current mode of the display matching token.
func (r *Registry) ModeOf(token string) (Mode, bool) {
	d, ok := r.Resolve(token)
	if !ok {
		return Mode{}, false
	}
	return d.Mode, true
}

// Primary returns the display the OS currently treats as primary.
func (r *Registry) Primary() (Descriptor, bool) {
	displays, err := r.Enumerate()
	if err != nil {
		log.Warnf("display enumeration failed: %v", err)
		return Descriptor{}, false
	}
	for _, d := range displays {
		if d.Primary {
			return d, true
		}
	}
	return Descriptor{}, false
}

// matchesToken checks the token against every name the display carries.
func matchesToken(d Descriptor, lowerToken string) bool {
	if lowerToken == "" {
		return false
	}
	haystack := append([]string{d.Name, d.Description}, d.Monitors...)
	for _, s := range haystack {
		if strings.Contains(strings.ToLower(s), lowerToken) {
			return true
		}
	}
	return false
}
