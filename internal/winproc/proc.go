// Package winproc provides process snapshots and name/ancestry matching.
package winproc

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Process is one entry from a process snapshot.
type Process struct {
	PID  uint32
	PPID uint32
	Name string
}

// Lister returns a fresh snapshot of running processes.
type Lister interface {
	Processes() ([]Process, error)
}

// PIDsByName returns the PIDs whose image name matches any entry in names,
// case-insensitively, in snapshot order.
func PIDsByName(procs []Process, names []string) []uint32 {
	want := nameSet(names)
	if want.Cardinality() == 0 {
		return nil
	}
	var pids []uint32
	for _, p := range procs {
		if want.Contains(strings.ToLower(p.Name)) {
			pids = append(pids, p.PID)
		}
	}
	return pids
}

// AnyRunning reports whether any process matches one of the given image names.
func AnyRunning(procs []Process, names []string) bool {
	return len(PIDsByName(procs, names)) > 0
}

// Family returns root and all of its descendants as a PID set. The walk
// follows parent links from the snapshot; a visited guard protects against
// PID-reuse cycles.
func Family(procs []Process, root uint32) mapset.Set[uint32] {
	family := mapset.NewSet(root)
	children := make(map[uint32][]uint32, len(procs))
	for _, p := range procs {
		children[p.PPID] = append(children[p.PPID], p.PID)
	}
	queue := []uint32{root}
	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]
		for _, child := range children[pid] {
			if family.Contains(child) {
				continue
			}
			family.Add(child)
			queue = append(queue, child)
		}
	}
	return family
}

// NameOf returns the lower-cased image name for pid, or "" if it is not in
// the snapshot.
func NameOf(procs []Process, pid uint32) string {
	for _, p := range procs {
		if p.PID == pid {
			return strings.ToLower(p.Name)
		}
	}
	return ""
}

// nameSet lower-cases a name list into a set, dropping empty entries.
func nameSet(names []string) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for _, n := range names {
		if n == "" {
			continue
		}
		set.Add(strings.ToLower(n))
	}
	return set
}
