//go:build windows

package window

import "syscall"

const perMonitorDPIAware = 2

// EnableDPIAwareness marks the process DPI aware so window and display
// coordinates arrive unscaled. Without it the system lies about geometry
// on high-DPI machines and every enforcement misses. The shcore call is
// preferred; older systems fall back to the user32 one.
func EnableDPIAwareness() {
	shcore := syscall.NewLazySystemDLL("shcore.dll")
	setAwareness := shcore.NewProc("SetProcessDpiAwareness")
	if setAwareness.Find() == nil {
		if rc, _, _ := setAwareness.Call(perMonitorDPIAware); int32(rc) == 0 {
			return
		}
	}
	user32.NewProc("SetProcessDPIAware").Call()
}
