// Package main starts the CRT session watcher.
package main

import "flag"

// main is the entrypoint for the watcher.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	attach := flag.Bool("attach", false, "Attach to running processes instead of spawning targets")
	flag.Parse()

	if err := run(*debug, *attach); err != nil {
		logFatal(err)
	}
}
