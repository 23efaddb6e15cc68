// Package cursor forces the mouse cursor visible. Emulators routinely
// hide it and leave it hidden when they crash or lose focus.
package cursor

// ForceVisible raises the system cursor display count until the cursor
// is visible. It is safe to call repeatedly.
func ForceVisible() {
	forceVisible()
}
