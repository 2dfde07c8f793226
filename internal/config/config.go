// Package config defines trainer configuration and loading.
//
// Conventions follow the rest of the project: New returns defaults, Load
// layers an optional YAML file and environment variables on top, and
// validation happens at load time so the rest of the code can trust the
// values it is handed.
package config

import (
	"os"
	"path/filepath"

	"github.com/coachkit/coachkit/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StateDir is where snapshots are persisted. Empty disables
	// persistence entirely.
	StateDir string `koanf:"state_dir"`

	// DefaultDuration is the planned session length in minutes when the
	// caller does not pass one.
	DefaultDuration int `koanf:"default_duration"`

	// FocusShare is the fraction of a session reserved for weak-skill
	// training.
	FocusShare float64 `koanf:"focus_share"`

	// FatigueThreshold is the fatigue level above which plans are
	// truncated.
	FatigueThreshold float64 `koanf:"fatigue_threshold"`

	// RecentWindowDays is the trailing window, in days, inside which a
	// module counts as recently trained.
	RecentWindowDays int `koanf:"recent_window_days"`

	// SessionsPerDay and TrialsPerDay are the same-day volumes at which
	// the fatigue estimate saturates.
	SessionsPerDay int `koanf:"sessions_per_day"`
	TrialsPerDay   int `koanf:"trials_per_day"`

	// KMax, KMin and KDecay tune the rating learning-rate curve.
	KMax   float64 `koanf:"k_max"`
	KMin   float64 `koanf:"k_min"`
	KDecay float64 `koanf:"k_decay"`

	// Modules is the ordered training catalog. Order is significant: it
	// defines ranked-query and selection tie-breaking.
	Modules []model.ModuleSpec `koanf:"modules"`

	// Skills optionally overrides skill display names and categories.
	Skills []model.SkillSpec `koanf:"skills"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		StateDir:         defaultStateDir(),
		DefaultDuration:  20,
		FocusShare:       0.6,
		FatigueThreshold: 0.5,
		RecentWindowDays: 7,
		SessionsPerDay:   3,
		TrialsPerDay:     100,
		KMax:             32,
		KMin:             8,
		KDecay:           20,
		Modules:          model.DefaultModules(),
		Skills:           model.DefaultSkills(),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coachkit"
	}
	return filepath.Join(home, ".coachkit")
}
