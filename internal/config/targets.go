package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sirebacon/CRT-Unified-Launcher/internal/geom"
)

// Duration parses Go duration strings ("100ms", "8s") from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// TargetSpec describes one window to track and enforce.
type TargetSpec struct {
	// Slug names the target in logs.
	Slug string `yaml:"slug"`
	// ProcessNames are executable names to attach to, matched
	// case-insensitively. The first match roots the process family.
	ProcessNames []string `yaml:"process_names"`
	// ClassContains and TitleContains narrow the window match.
	ClassContains []string `yaml:"class_contains"`
	TitleContains []string `yaml:"title_contains"`
	// Rect is the enforced geometry. With PositionOnly only x and y
	// are enforced.
	Rect             geom.Rect `yaml:"rect"`
	PositionOnly     bool      `yaml:"position_only"`
	IncludeMinimized bool      `yaml:"include_minimized"`
	// Per-target timing overrides. Zero falls back to the global value.
	FastWindow Duration `yaml:"fast_window"`
	PollFast   Duration `yaml:"poll_fast"`
	PollSlow   Duration `yaml:"poll_slow"`
	// Primary marks the target whose process exit ends the session.
	Primary bool `yaml:"primary"`
	// Spawn, when set, is an executable to launch for this target
	// instead of attaching to a running process.
	Spawn     string   `yaml:"spawn"`
	SpawnDir  string   `yaml:"spawn_dir"`
	SpawnArgs []string `yaml:"spawn_args"`
}

func (t TargetSpec) validate() error {
	if t.Slug == "" {
		return errors.New("target missing slug")
	}
	if t.Spawn == "" && len(t.ProcessNames) == 0 && len(t.ClassContains) == 0 && len(t.TitleContains) == 0 {
		return fmt.Errorf("target %q has no spawn path and no match filters", t.Slug)
	}
	if !t.PositionOnly && (t.Rect.W <= 0 || t.Rect.H <= 0) {
		return fmt.Errorf("target %q needs a positive rect size", t.Slug)
	}
	return nil
}

type targetsFile struct {
	Targets []TargetSpec `yaml:"targets"`
}

// LoadTargets reads the YAML target roster. A missing file yields an
// empty roster so a single target can still come from flags.
func LoadTargets(path string) ([]TargetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	primaries := 0
	for _, t := range file.Targets {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if t.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		return nil, errors.New("at most one target may be primary")
	}
	return file.Targets, nil
}
