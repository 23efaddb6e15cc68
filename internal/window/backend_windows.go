//go:build windows

package window

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

var (
	user32                       = syscall.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	maxTextLen    = 512
	restoreSettle = 150 * time.Millisecond
)

// WinBackend enumerates and moves windows through user32.
type WinBackend struct{}

// NewBackend returns the live window backend.
func NewBackend() *WinBackend { return &WinBackend{} }

// TopLevel returns a snapshot of all top-level windows.
func (b *WinBackend) TopLevel() ([]Info, error) {
	var handles []win.HWND
	cb := syscall.NewCallback(func(hwnd win.HWND, _ uintptr) uintptr {
		handles = append(handles, hwnd)
		return 1
	})
	rc, _, _ := procEnumWindows.Call(cb, 0)
	if rc == 0 {
		return nil, fmt.Errorf("window: EnumWindows failed")
	}
	infos := make([]Info, 0, len(handles))
	for _, hwnd := range handles {
		infos = append(infos, describe(hwnd))
	}
	return infos, nil
}

func describe(hwnd win.HWND) Info {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	var rc win.RECT
	procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rc)))
	return Info{
		Handle: Handle(hwnd),
		PID:    pid,
		Class:  className(hwnd),
		Title:  windowText(hwnd),
		Rect: geom.Rect{
			X: int(rc.Left),
			Y: int(rc.Top),
			W: int(rc.Right - rc.Left),
			H: int(rc.Bottom - rc.Top),
		},
		Visible:   win.IsWindowVisible(hwnd),
		Minimized: win.IsIconic(hwnd),
	}
}

func className(hwnd win.HWND) string {
	var buf [maxTextLen]uint16
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), maxTextLen)
	return syscall.UTF16ToString(buf[:n])
}

func windowText(hwnd win.HWND) string {
	var buf [maxTextLen]uint16
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), maxTextLen)
	return syscall.UTF16ToString(buf[:n])
}

// Move repositions a window, restoring it from the minimized or maximized
// state first so the new geometry sticks.
func (b *WinBackend) Move(h Handle, r geom.Rect, positionOnly bool) error {
	hwnd := win.HWND(h)
	if win.IsIconic(hwnd) {
		win.ShowWindow(hwnd, win.SW_RESTORE)
		time.Sleep(restoreSettle)
	} else if maximized(hwnd) {
		win.ShowWindow(hwnd, win.SW_RESTORE)
	}
	flags := uint32(win.SWP_SHOWWINDOW)
	w, ht := int32(r.W), int32(r.H)
	if positionOnly {
		flags |= win.SWP_NOSIZE
		w, ht = 0, 0
	}
	if !win.SetWindowPos(hwnd, win.HWND_TOP, int32(r.X), int32(r.Y), w, ht, flags) {
		return fmt.Errorf("window: SetWindowPos(%#x, %s) failed", uintptr(h), r)
	}
	return nil
}

func maximized(hwnd win.HWND) bool {
	style := win.GetWindowLong(hwnd, win.GWL_STYLE)
	return style&win.WS_MAXIMIZE != 0
}

// IsWindow reports whether the handle still refers to a live window.
func (b *WinBackend) IsWindow(h Handle) bool {
	return win.IsWindow(win.HWND(h))
}
