//go:build windows

package display

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procGetDisplayConfigBufferSizes = user32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = user32.NewProc("QueryDisplayConfig")
	procSetDisplayConfig            = user32.NewProc("SetDisplayConfig")
	procDisplayConfigGetDeviceInfo  = user32.NewProc("DisplayConfigGetDeviceInfo")
)

const (
	qdcOnlyActivePaths = 0x00000002

	sdcUseSuppliedDisplayConfig = 0x00000020
	sdcApply                    = 0x00000080
	sdcSaveToDatabase           = 0x00000200
	sdcAllowChanges             = 0x00000400

	dcDeviceInfoGetSourceName = 1
	dcModeInfoTypeSource      = 1
)

// The records below mirror the CCD (connecting and configuring displays) API
// structures byte for byte. Field order and width are fixed; array strides
// must match the C definitions (dcPathInfo: 72 bytes, dcModeInfo: 64 bytes).

type dcLUID struct {
	lowPart  uint32
	highPart int32
}

type dcRational struct {
	numerator   uint32
	denominator uint32
}

type dcSourceMode struct {
	width       uint32
	height      uint32
	pixelFormat int32
	position    pointl
}

// dcModeInfo keeps the target/source union as raw bytes; only source-mode
// entries are ever decoded here.
type dcModeInfo struct {
	infoType  int32
	id        uint32
	adapterID dcLUID
	data      [48]byte
}

// sourceMode decodes the union for a source-type entry.
func (m *dcModeInfo) sourceMode() *dcSourceMode {
	return (*dcSourceMode)(unsafe.Pointer(&m.data[0]))
}

type dcPathSourceInfo struct {
	adapterID   dcLUID
	id          uint32
	modeInfoIdx uint32
	statusFlags uint32
}

type dcPathTargetInfo struct {
	adapterID        dcLUID
	id               uint32
	modeInfoIdx      uint32
	outputTechnology int32
	rotation         int32
	scaling          int32
	refreshRate      dcRational
	scanLineOrdering int32
	targetAvailable  int32
	statusFlags      uint32
}

type dcPathInfo struct {
	sourceInfo dcPathSourceInfo
	targetInfo dcPathTargetInfo
	flags      uint32
}

type dcDeviceInfoHeader struct {
	infoType  int32
	size      uint32
	adapterID dcLUID
	id        uint32
}

type dcSourceDeviceName struct {
	header            dcDeviceInfoHeader
	viewGDIDeviceName [32]uint16
}

// queryActivePaths reads the active path and mode arrays from the OS.
func queryActivePaths() ([]dcPathInfo, []dcModeInfo, error) {
	var numPaths, numModes uint32
	rc, _, _ := procGetDisplayConfigBufferSizes.Call(
		qdcOnlyActivePaths,
		uintptr(unsafe.Pointer(&numPaths)), uintptr(unsafe.Pointer(&numModes)))
	if rc != 0 {
		return nil, nil, fmt.Errorf("GetDisplayConfigBufferSizes returned %d", int32(rc))
	}
	if numPaths == 0 || numModes == 0 {
		return nil, nil, fmt.Errorf("no active display paths")
	}

	paths := make([]dcPathInfo, numPaths)
	modes := make([]dcModeInfo, numModes)
	rc, _, _ = procQueryDisplayConfig.Call(
		qdcOnlyActivePaths,
		uintptr(unsafe.Pointer(&numPaths)), uintptr(unsafe.Pointer(&paths[0])),
		uintptr(unsafe.Pointer(&numModes)), uintptr(unsafe.Pointer(&modes[0])),
		0)
	if rc != 0 {
		return nil, nil, fmt.Errorf("QueryDisplayConfig returned %d", int32(rc))
	}
	return paths[:numPaths], modes[:numModes], nil
}

// sourceGDIName resolves a path's source to its GDI device name.
func sourceGDIName(p *dcPathInfo) (string, bool) {
	var info dcSourceDeviceName
	info.header.infoType = dcDeviceInfoGetSourceName
	info.header.size = uint32(unsafe.Sizeof(info))
	info.header.adapterID = p.sourceInfo.adapterID
	info.header.id = p.sourceInfo.id
	rc, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(unsafe.Pointer(&info)))
	if rc != 0 {
		return "", false
	}
	return windows.UTF16ToString(info.viewGDIDeviceName[:]), true
}

// ActiveSourceOrigins reads the origin of every active display source,
// keyed by GDI device name.
func (b *WinBackend) ActiveSourceOrigins() ([]SourceOrigin, error) {
	paths, modes, err := queryActivePaths()
	if err != nil {
		return nil, err
	}
	var out []SourceOrigin
	seen := make(map[string]bool)
	for i := range paths {
		name, ok := sourceGDIName(&paths[i])
		if !ok || seen[name] {
			continue
		}
		src := &paths[i].sourceInfo
		for j := range modes {
			m := &modes[j]
			if m.infoType != dcModeInfoTypeSource || m.id != src.id ||
				m.adapterID != src.adapterID {
				continue
			}
			pos := m.sourceMode().position
			out = append(out, SourceOrigin{Device: name, X: int(pos.x), Y: int(pos.y)})
			seen[name] = true
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no source modes resolved")
	}
	return out, nil
}

// ApplySourceOrigins re-reads the active topology, rewrites each source-mode
// position to the supplied origin, and commits the whole configuration with
// one SetDisplayConfig call.
func (b *WinBackend) ApplySourceOrigins(origins []SourceOrigin) error {
	want := make(map[string]SourceOrigin, len(origins))
	for _, o := range origins {
		want[strings.ToLower(o.Device)] = o
	}

	paths, modes, err := queryActivePaths()
	if err != nil {
		return err
	}
	for i := range paths {
		name, ok := sourceGDIName(&paths[i])
		if !ok {
			continue
		}
		o, ok := want[strings.ToLower(name)]
		if !ok {
			continue
		}
		src := &paths[i].sourceInfo
		for j := range modes {
			m := &modes[j]
			if m.infoType != dcModeInfoTypeSource || m.id != src.id ||
				m.adapterID != src.adapterID {
				continue
			}
			m.sourceMode().position = pointl{x: int32(o.X), y: int32(o.Y)}
			break
		}
	}

	flags := uintptr(sdcApply | sdcUseSuppliedDisplayConfig | sdcSaveToDatabase | sdcAllowChanges)
	rc, _, _ := procSetDisplayConfig.Call(
		uintptr(len(paths)), uintptr(unsafe.Pointer(&paths[0])),
		uintptr(len(modes)), uintptr(unsafe.Pointer(&modes[0])),
		flags)
	if rc != 0 {
		return fmt.Errorf("SetDisplayConfig returned %d", int32(rc))
	}
	return nil
}
