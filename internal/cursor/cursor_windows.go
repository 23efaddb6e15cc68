//go:build windows

package cursor

import "syscall"

var (
	user32         = syscall.NewLazySystemDLL("user32.dll")
	procShowCursor = user32.NewProc("ShowCursor")
)

// maxRaises bounds the loop in case another process keeps decrementing
// the display count underneath us.
const maxRaises = 16

func forceVisible() {
	for i := 0; i < maxRaises; i++ {
		count, _, _ := procShowCursor.Call(1)
		if int32(count) >= 0 {
			return
		}
	}
}
