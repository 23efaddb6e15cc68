//go:build windows

package display

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = syscall.NewLazySystemDLL("user32.dll")

	procEnumDisplayDevicesW      = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettingsExW   = user32.NewProc("EnumDisplaySettingsExW")
	procChangeDisplaySettingsExW = user32.NewProc("ChangeDisplaySettingsExW")
)

const (
	displayDeviceAttachedToDesktop = 0x00000001
	displayDevicePrimaryDevice     = 0x00000004

	enumCurrentSettings = 0xFFFFFFFF

	dmPosition         = 0x00000020
	dmPelsWidth        = 0x00080000
	dmPelsHeight       = 0x00100000
	dmDisplayFrequency = 0x00400000

	cdsUpdateRegistry = 0x00000001
	cdsSetPrimary     = 0x00000010
	cdsNoReset        = 0x10000000

	dispChangeSuccessful = 0
)

// displayDevice mirrors DISPLAY_DEVICEW: fixed field order and width, 840
// bytes. cb must be set to the struct size before every call.
type displayDevice struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

// pointl mirrors POINTL.
type pointl struct {
	x int32
	y int32
}

// devMode mirrors the display variant of DEVMODEW (220 bytes): the union that
// carries printer fields in the C header is laid out here as the display
// position block. size must be set before every call; driverExtra stays 0
// because no driver-private data follows the record.
type devMode struct {
	deviceName         [32]uint16
	specVersion        uint16
	driverVersion      uint16
	size               uint16
	driverExtra        uint16
	fields             uint32
	position           pointl
	displayOrientation uint32
	displayFixedOutput uint32
	color              int16
	duplex             int16
	yResolution        int16
	ttOption           int16
	collate            int16
	formName           [32]uint16
	logPixels          uint16
	bitsPerPel         uint32
	pelsWidth          uint32
	pelsHeight         uint32
	displayFlags       uint32
	displayFrequency   uint32
	icmMethod          uint32
	icmIntent          uint32
	mediaType          uint32
	ditherType         uint32
	reserved1          uint32
	reserved2          uint32
	panningWidth       uint32
	panningHeight      uint32
}

// WinBackend implements Backend on top of the Win32 display APIs.
type WinBackend struct{}

// NewBackend returns the Windows display backend.
func NewBackend() Backend {
	return &WinBackend{}
}

// Devices lists all display adapters, including detached ones, in OS
// enumeration order, with per-adapter monitor names from the second
// enumeration level.
func (b *WinBackend) Devices() ([]Device, error) {
	var out []Device
	for i := uint32(0); ; i++ {
		var dd displayDevice
		dd.cb = uint32(unsafe.Sizeof(dd))
		r, _, _ := procEnumDisplayDevicesW.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dd)), 0)
		if r == 0 {
			break
		}
		dev := Device{
			Name:        windows.UTF16ToString(dd.deviceName[:]),
			Description: windows.UTF16ToString(dd.deviceString[:]),
			Attached:    dd.stateFlags&displayDeviceAttachedToDesktop != 0,
			Primary:     dd.stateFlags&displayDevicePrimaryDevice != 0,
		}
		dev.Monitors = b.monitorStrings(dev.Name)
		out = append(out, dev)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no display adapters enumerated")
	}
	return out, nil
}

// monitorStrings enumerates the monitors attached to one adapter.
func (b *WinBackend) monitorStrings(device string) []string {
	namePtr, err := windows.UTF16PtrFromString(device)
	if err != nil {
		return nil
	}
	var monitors []string
	for j := uint32(0); ; j++ {
		var mon displayDevice
		mon.cb = uint32(unsafe.Sizeof(mon))
		r, _, _ := procEnumDisplayDevicesW.Call(
			uintptr(unsafe.Pointer(namePtr)), uintptr(j), uintptr(unsafe.Pointer(&mon)), 0)
		if r == 0 {
			break
		}
		if s := windows.UTF16ToString(mon.deviceString[:]); s != "" {
			monitors = append(monitors, s)
		}
	}
	return monitors
}

// CurrentMode reads the device's current mode record.
func (b *WinBackend) CurrentMode(device string) (Mode, error) {
	dm, err := b.readMode(device)
	if err != nil {
		return Mode{}, err
	}
	return Mode{
		Width:     int(dm.pelsWidth),
		Height:    int(dm.pelsHeight),
		RefreshHz: int(dm.displayFrequency),
		X:         int(dm.position.x),
		Y:         int(dm.position.y),
	}, nil
}

// ApplyMode reads the current mode, applies the requested field changes, and
// issues one ChangeDisplaySettingsEx call.
func (b *WinBackend) ApplyMode(device string, change ModeChange, opts ApplyOptions) error {
	dm, err := b.readMode(device)
	if err != nil {
		return err
	}
	if change.SetPosition {
		dm.position.x = int32(change.X)
		dm.position.y = int32(change.Y)
		dm.fields |= dmPosition
	}
	if change.SetSize {
		dm.pelsWidth = uint32(change.Width)
		dm.pelsHeight = uint32(change.Height)
		dm.fields |= dmPelsWidth | dmPelsHeight
	}
	if change.SetRefresh {
		dm.displayFrequency = uint32(change.RefreshHz)
		dm.fields |= dmDisplayFrequency
	}

	var flags uintptr
	if opts.Persist {
		flags |= cdsUpdateRegistry
	}
	if opts.NoReset {
		flags |= cdsNoReset
	}
	if opts.SetPrimary {
		flags |= cdsSetPrimary
	}

	namePtr, err := windows.UTF16PtrFromString(device)
	if err != nil {
		return err
	}
	rc, _, _ := procChangeDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(namePtr)), uintptr(unsafe.Pointer(&dm)), 0, flags, 0)
	if int32(rc) != dispChangeSuccessful {
		return fmt.Errorf("ChangeDisplaySettingsEx(%s) returned %d", device, int32(rc))
	}
	return nil
}

// CommitStaged applies all mode changes staged with CDS_NORESET.
func (b *WinBackend) CommitStaged() error {
	rc, _, _ := procChangeDisplaySettingsExW.Call(0, 0, 0, 0, 0)
	if int32(rc) != dispChangeSuccessful {
		return fmt.Errorf("ChangeDisplaySettingsEx commit returned %d", int32(rc))
	}
	return nil
}

// readMode fetches the device's current DEVMODE record.
func (b *WinBackend) readMode(device string) (devMode, error) {
	var dm devMode
	dm.size = uint16(unsafe.Sizeof(dm))
	namePtr, err := windows.UTF16PtrFromString(device)
	if err != nil {
		return devMode{}, err
	}
	r, _, _ := procEnumDisplaySettingsExW.Call(
		uintptr(unsafe.Pointer(namePtr)), uintptr(enumCurrentSettings),
		uintptr(unsafe.Pointer(&dm)), 0)
	if r == 0 {
		return devMode{}, fmt.Errorf("EnumDisplaySettingsEx(%s) failed", device)
	}
	return dm, nil
}
