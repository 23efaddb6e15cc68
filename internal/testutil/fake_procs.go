package testutil

import "github.com/sirebacon/CRT-Unified-Launcher/internal/winproc"

// FakeLister implements winproc.Lister over a fixed process table.
type FakeLister struct {
	Procs []winproc.Process
	Err   error
}

// Ensure FakeLister implements the interface.
var _ winproc.Lister = (*FakeLister)(nil)

// Processes returns a copy of the configured table.
func (f *FakeLister) Processes() ([]winproc.Process, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]winproc.Process, len(f.Procs))
	copy(out, f.Procs)
	return out, nil
}
