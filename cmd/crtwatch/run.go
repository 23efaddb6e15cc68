// Package main starts the CRT session watcher.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	log "github.com/charmbracelet/log"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/config"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/cursor"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/display"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/launcher"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/stopflag"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/watcher"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/window"
	"github.com/sirebacon/CRT-Unified-Launcher/internal/winproc"
)

// run wires the session and blocks until shutdown.
func run(debug, attach bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg, debug)
	logStartup(cfg)

	window.EnableDPIAwareness()

	backend := display.NewBackend()
	registry := display.NewRegistry(backend)
	switcher := display.NewSwitcher(backend)
	corrector := display.NewCorrector(backend)

	// Remember the arrangement we are about to disturb.
	var prevPrimary string
	if p, ok := registry.Primary(); ok {
		prevPrimary = p.Name
	}
	var savedMode display.SavedMode
	var haveSaved bool
	if cfg.CRTToken != "" {
		savedMode, haveSaved = corrector.SaveMode(cfg.CRTToken)
	}

	if cfg.CRTToken != "" {
		if !switcher.SetPrimaryVerified(cfg.CRTToken, cfg.VerifyRetries) {
			log.Warnf("could not promote %q to primary, continuing on current arrangement", cfg.CRTToken)
		}
		if cfg.RefreshHz > 0 {
			corrector.SetRefresh(cfg.CRTToken, cfg.RefreshHz)
		}
	}
	defer restoreDisplays(cfg, switcher, corrector, prevPrimary, savedMode, haveSaved)

	cursor.ForceVisible()

	targets, err := config.LoadTargets(cfg.TargetsPath)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no targets configured")
	}

	lister := winproc.NewLister()
	sess := watcher.NewSession(window.NewBackend(), lister, stopflag.New(cfg.StopFlagPath), watcher.Options{
		Hold:        time.Duration(cfg.SignalHoldMs) * time.Millisecond,
		RestoreRect: cfg.RestoreRect,
		Defaults: window.EnforceConfig{
			FastWindow:  time.Duration(cfg.FastWindowMs) * time.Millisecond,
			PollFast:    time.Duration(cfg.PollFastMs) * time.Millisecond,
			PollSlow:    time.Duration(cfg.PollSlowMs) * time.Millisecond,
			MissBackoff: cfg.MissBackoff,
		},
		ForceCursor: cfg.ForceCursor,
	})

	procs, err := lister.Processes()
	if err != nil {
		log.Warnf("process snapshot failed: %v", err)
	}
	var spawned []*launcher.Process
	defer func() { stopChildren(spawned) }()
	for _, spec := range targets {
		var proc *launcher.Process
		if shouldSpawn(procs, spec, attach) {
			if proc, err = launcher.Spawn(spec.Spawn, spec.SpawnDir, spec.SpawnArgs); err != nil {
				return err
			}
			spawned = append(spawned, proc)
		} else if spec.Spawn != "" && winproc.AnyRunning(procs, spec.ProcessNames) {
			log.Infof("%s already running, attaching by name", spec.Slug)
		}
		sess.AddTarget(spec, proc)
	}

	// Interrupts only mark a flag; the session loop applies the policy.
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			sess.Interrupt()
		}
	}()

	if cfg.StartupGraceMs > 0 {
		sess.WaitForWindows(time.Duration(cfg.StartupGraceMs) * time.Millisecond)
	}
	return sess.Run(context.Background())
}

// shouldSpawn decides between launching a fresh child and attaching to a
// process already on the system. The attach flag forces attach mode; without
// it a target whose image name is already in the snapshot is attached
// instead of launched twice.
func shouldSpawn(procs []winproc.Process, spec config.TargetSpec, attach bool) bool {
	if spec.Spawn == "" || attach {
		return false
	}
	return !winproc.AnyRunning(procs, spec.ProcessNames)
}

// stopChildren kills the children this run spawned and are still alive.
// Attached processes are never on the list.
func stopChildren(procs []*launcher.Process) {
	for _, p := range procs {
		if p.Exited() {
			continue
		}
		log.Infof("stopping child pid %d", p.PID())
		if err := p.Stop(); err != nil {
			log.Warnf("could not stop child pid %d: %v", p.PID(), err)
		}
	}
}

// restoreDisplays puts the desktop arrangement back the way it was.
func restoreDisplays(cfg config.Config, switcher *display.Switcher, corrector *display.Corrector, prevPrimary string, saved display.SavedMode, haveSaved bool) {
	if haveSaved {
		corrector.RestoreMode(saved)
	}
	if cfg.RestorePrimary && prevPrimary != "" {
		if !switcher.SetPrimaryVerified(prevPrimary, cfg.VerifyRetries) {
			log.Warnf("could not restore primary display %s", prevPrimary)
		}
	}
}

// setupLogging configures the process-wide logger.
func setupLogging(cfg config.Config, debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	switch cfg.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// logStartup prints the effective configuration.
func logStartup(cfg config.Config) {
	log.Infof("crtwatch starting")
	if cfg.CRTToken == "" {
		log.Infof("no CRT token set, leaving display arrangement alone")
	} else {
		log.Infof("CRT token: %q", cfg.CRTToken)
	}
	if cfg.RefreshHz > 0 {
		log.Infof("refresh correction: %d Hz", cfg.RefreshHz)
	}
	log.Infof("targets file: %s", cfg.TargetsPath)
	log.Infof("stop flag: %s", cfg.StopFlagPath)
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Errorf("fatal: %v", err)
	os.Exit(1)
}
