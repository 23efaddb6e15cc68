//go:build !windows

package cursor

func forceVisible() {}
