package window

import (
	"strings"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/winproc"
)

// Shell-owned window classes that are never enforcement candidates.
var shellClasses = map[string]struct{}{
	"Shell_TrayWnd": {},
	"Progman":       {},
	"WorkerW":       {},
}

// Windows smaller than this are tooltips, splash fragments and similar
// transients rather than the application surface.
const (
	minCandidateWidth  = 320
	minCandidateHeight = 240
)

// Filters restricts which top-level windows qualify as the target.
type Filters struct {
	// PIDs is the process family of the tracked process. Windows owned
	// by other processes only qualify through ProcessNames.
	PIDs mapset.Set[uint32]
	// ProcessNames is an allow-list of executable names for windows
	// outside the tracked family, matched case-insensitively.
	ProcessNames []string
	// ClassContains and TitleContains are case-insensitive substring
	// filters. Empty slices match everything.
	ClassContains []string
	TitleContains []string
	// IncludeMinimized keeps iconic windows in the candidate set.
	IncludeMinimized bool
}

// Locator picks the best enforcement candidate among top-level windows.
type Locator struct {
	windows Backend
	procs   winproc.Lister
}

// NewLocator returns a locator over the given window and process surfaces.
func NewLocator(windows Backend, procs winproc.Lister) *Locator {
	return &Locator{windows: windows, procs: procs}
}

// Find returns the largest visible window matching the filters. A failed
// window enumeration counts as a miss, not an error.
func (l *Locator) Find(f Filters) (Info, bool) {
	wins, err := l.windows.TopLevel()
	if err != nil {
		log.Debugf("window enumeration failed: %v", err)
		return Info{}, false
	}
	var procs []winproc.Process
	if len(f.ProcessNames) > 0 {
		if procs, err = l.procs.Processes(); err != nil {
			log.Debugf("process snapshot failed: %v", err)
		}
	}

	var best Info
	bestArea := -1
	for _, w := range wins {
		if !l.candidate(w, f, procs) {
			continue
		}
		if area := w.Rect.Area(); area > bestArea {
			best, bestArea = w, area
		}
	}
	return best, bestArea >= 0
}

func (l *Locator) candidate(w Info, f Filters, procs []winproc.Process) bool {
	if !w.Visible {
		return false
	}
	if w.Minimized && !f.IncludeMinimized {
		return false
	}
	if _, shell := shellClasses[w.Class]; shell {
		return false
	}
	if w.Rect.W < minCandidateWidth || w.Rect.H < minCandidateHeight {
		return false
	}
	if f.PIDs != nil && !f.PIDs.Contains(w.PID) {
		if !nameAllowed(winproc.NameOf(procs, w.PID), f.ProcessNames) {
			return false
		}
	}
	return containsAny(w.Class, f.ClassContains) && containsAny(w.Title, f.TitleContains)
}

func nameAllowed(name string, allowed []string) bool {
	if name == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(name, a) {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains at least one needle,
// case-insensitively. An empty needle list matches everything.
func containsAny(s string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
