package display

import "errors"

// applyCall records one ApplyMode invocation.
type applyCall struct {
	Device string
	Change ModeChange
	Opts   ApplyOptions
}

// fakeBackend implements Backend over fixed data and records mutations.
type fakeBackend struct {
	devices []Device
	modes   map[string]Mode

	applies []applyCall
	commits int

	// failTransient rejects ApplyMode calls with Persist false.
	failTransient bool
	// failSetPrimary rejects ApplyMode calls carrying SetPrimary.
	failSetPrimary bool
	// honorPrimary makes a SetPrimary apply update the device flags.
	honorPrimary bool

	origins        []SourceOrigin
	originsErr     error
	appliedOrigins [][]SourceOrigin
}

var _ Backend = (*fakeBackend)(nil)

func (f *fakeBackend) Devices() ([]Device, error) {
	out := make([]Device, len(f.devices))
	copy(out, f.devices)
	return out, nil
}

func (f *fakeBackend) CurrentMode(device string) (Mode, error) {
	mode, ok := f.modes[device]
	if !ok {
		return Mode{}, errors.New("unknown device")
	}
	return mode, nil
}

func (f *fakeBackend) ApplyMode(device string, change ModeChange, opts ApplyOptions) error {
	f.applies = append(f.applies, applyCall{Device: device, Change: change, Opts: opts})
	if opts.SetPrimary && f.failSetPrimary {
		return errors.New("driver rejected primary change")
	}
	if !opts.Persist && f.failTransient {
		return errors.New("driver rejected transient commit")
	}
	mode := f.modes[device]
	if change.SetPosition {
		mode.X, mode.Y = change.X, change.Y
	}
	if change.SetSize {
		mode.Width, mode.Height = change.Width, change.Height
	}
	if change.SetRefresh {
		mode.RefreshHz = change.RefreshHz
	}
	if f.modes == nil {
		f.modes = map[string]Mode{}
	}
	f.modes[device] = mode
	if opts.SetPrimary && f.honorPrimary {
		for i := range f.devices {
			f.devices[i].Primary = f.devices[i].Name == device
		}
	}
	return nil
}

func (f *fakeBackend) CommitStaged() error {
	f.commits++
	return nil
}

func (f *fakeBackend) ActiveSourceOrigins() ([]SourceOrigin, error) {
	if f.originsErr != nil {
		return nil, f.originsErr
	}
	out := make([]SourceOrigin, len(f.origins))
	copy(out, f.origins)
	return out, nil
}

func (f *fakeBackend) ApplySourceOrigins(origins []SourceOrigin) error {
	f.appliedOrigins = append(f.appliedOrigins, origins)
	return nil
}
