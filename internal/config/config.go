// Package config loads environment and target-file configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

const (
	defaultRefreshHz      = 0
	defaultVerifyRetries  = 3
	defaultSignalHoldMs   = 8000
	defaultFastWindowMs   = 8000
	defaultPollFastMs     = 100
	defaultPollSlowMs     = 400
	defaultMissBackoff    = 10
	defaultStartupGraceMs = 15000
	defaultForceCursor    = true
	defaultLogLevel       = "info"
	defaultRestorePrimary = true
	defaultRestoreRect    = "100,50,800,600"
)

// Config holds runtime configuration values.
type Config struct {
	// CRTToken selects the display promoted to primary. Matched as a
	// case-insensitive substring against device names, descriptions and
	// attached monitor strings.
	CRTToken string
	// RefreshHz corrects the CRT refresh rate after the switch. Zero
	// leaves the rate alone.
	RefreshHz int
	// VerifyRetries bounds the verified primary-switch loop.
	VerifyRetries int
	// SignalHoldMs is the shared interrupt threshold: a second console
	// interrupt within it shuts the session down, and a later one
	// resumes a paused session.
	SignalHoldMs int
	// FastWindowMs, PollFastMs, PollSlowMs and MissBackoff are the
	// enforcement timing defaults, overridable per target.
	FastWindowMs int
	PollFastMs   int
	PollSlowMs   int
	MissBackoff  int
	// StartupGraceMs bounds the wait for a spawned target's first window
	// before the enforcement loop starts.
	StartupGraceMs int
	// ForceCursor re-asserts cursor visibility every tick.
	ForceCursor bool
	// StopFlagPath is where the deliberate-stop marker file is written.
	StopFlagPath string
	// TargetsPath is the YAML target roster location.
	TargetsPath string
	// RestoreRect is where windows are parked on soft stop and on
	// shutdown, as "x,y,w,h".
	RestoreRect geom.Rect
	// RestorePrimary restores the previous primary display on exit.
	RestorePrimary bool
	LogLevel       string
}

// Load reads configuration from a .env file next to the binary and from
// environment variables. Environment variables win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		CRTToken:       strings.TrimSpace(os.Getenv("CRT_TOKEN")),
		RefreshHz:      defaultRefreshHz,
		VerifyRetries:  defaultVerifyRetries,
		SignalHoldMs:   defaultSignalHoldMs,
		FastWindowMs:   defaultFastWindowMs,
		PollFastMs:     defaultPollFastMs,
		PollSlowMs:     defaultPollSlowMs,
		MissBackoff:    defaultMissBackoff,
		StartupGraceMs: defaultStartupGraceMs,
		ForceCursor:    defaultForceCursor,
		StopFlagPath:   filepath.Join(xdg.StateHome, "crtwatch", "stop.flag"),
		TargetsPath:    filepath.Join(xdg.ConfigHome, "crtwatch", "targets.yaml"),
		RestorePrimary: defaultRestorePrimary,
		LogLevel:       defaultLogLevel,
	}

	cfg.StopFlagPath = envString("STOP_FLAG_PATH", cfg.StopFlagPath)
	cfg.TargetsPath = envString("TARGETS_PATH", cfg.TargetsPath)
	cfg.LogLevel = strings.ToLower(envString("LOG_LEVEL", cfg.LogLevel))
	cfg.RestorePrimary = envBool("RESTORE_PRIMARY", cfg.RestorePrimary)

	refresh, err := envInt("REFRESH_HZ", cfg.RefreshHz)
	if err != nil {
		return Config{}, err
	}
	if refresh < 0 {
		return Config{}, fmt.Errorf("REFRESH_HZ must be >= 0")
	}
	cfg.RefreshHz = refresh

	retries, err := envInt("VERIFY_RETRIES", cfg.VerifyRetries)
	if err != nil {
		return Config{}, err
	}
	if retries <= 0 {
		return Config{}, fmt.Errorf("VERIFY_RETRIES must be > 0")
	}
	cfg.VerifyRetries = retries

	hold, err := envInt("SIGNAL_HOLD_MS", cfg.SignalHoldMs)
	if err != nil {
		return Config{}, err
	}
	if hold <= 0 {
		return Config{}, fmt.Errorf("SIGNAL_HOLD_MS must be > 0")
	}
	cfg.SignalHoldMs = hold

	fastWindow, err := envInt("FAST_WINDOW_MS", cfg.FastWindowMs)
	if err != nil {
		return Config{}, err
	}
	if fastWindow < 0 {
		return Config{}, fmt.Errorf("FAST_WINDOW_MS must be >= 0")
	}
	cfg.FastWindowMs = fastWindow

	pollFast, err := envInt("POLL_FAST_MS", cfg.PollFastMs)
	if err != nil {
		return Config{}, err
	}
	if pollFast <= 0 {
		return Config{}, fmt.Errorf("POLL_FAST_MS must be > 0")
	}
	cfg.PollFastMs = pollFast

	pollSlow, err := envInt("POLL_SLOW_MS", cfg.PollSlowMs)
	if err != nil {
		return Config{}, err
	}
	if pollSlow <= 0 {
		return Config{}, fmt.Errorf("POLL_SLOW_MS must be > 0")
	}
	cfg.PollSlowMs = pollSlow

	backoff, err := envInt("MISS_BACKOFF", cfg.MissBackoff)
	if err != nil {
		return Config{}, err
	}
	if backoff <= 0 {
		return Config{}, fmt.Errorf("MISS_BACKOFF must be > 0")
	}
	cfg.MissBackoff = backoff

	grace, err := envInt("STARTUP_GRACE_MS", cfg.StartupGraceMs)
	if err != nil {
		return Config{}, err
	}
	if grace < 0 {
		return Config{}, fmt.Errorf("STARTUP_GRACE_MS must be >= 0")
	}
	cfg.StartupGraceMs = grace
	cfg.ForceCursor = envBool("FORCE_CURSOR", cfg.ForceCursor)

	rect, err := parseRect(envString("RESTORE_RECT", defaultRestoreRect))
	if err != nil {
		return Config{}, fmt.Errorf("RESTORE_RECT: %w", err)
	}
	cfg.RestoreRect = rect

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error")
	}

	return cfg, nil
}

// parseRect parses "x,y,w,h" into a rectangle.
func parseRect(raw string) (geom.Rect, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("expected x,y,w,h, got %q", raw)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geom.Rect{}, fmt.Errorf("bad component %q: %w", p, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return geom.Rect{}, fmt.Errorf("width and height must be positive in %q", raw)
	}
	return geom.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
