package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if COACHKIT_CONFIG is set
//  3. env (prefix COACHKIT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("COACHKIT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: COACHKIT_LOG_LEVEL, COACHKIT_STATE_DIR, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("COACHKIT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "coachkit_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultDuration <= 0 {
		return fmt.Errorf("%w: default_duration must be positive", ErrInvalidConfig)
	}
	if c.FocusShare <= 0 || c.FocusShare >= 1 {
		return fmt.Errorf("%w: focus_share must be in (0, 1)", ErrInvalidConfig)
	}
	if c.FatigueThreshold <= 0 || c.FatigueThreshold > 1 {
		return fmt.Errorf("%w: fatigue_threshold must be in (0, 1]", ErrInvalidConfig)
	}
	if c.RecentWindowDays <= 0 {
		return fmt.Errorf("%w: recent_window_days must be positive", ErrInvalidConfig)
	}
	if c.SessionsPerDay <= 0 || c.TrialsPerDay <= 0 {
		return fmt.Errorf("%w: fatigue limits must be positive", ErrInvalidConfig)
	}
	if c.KMin <= 0 || c.KMax < c.KMin || c.KDecay <= 0 {
		return fmt.Errorf("%w: learning-rate parameters out of range", ErrInvalidConfig)
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("%w: module catalog must not be empty", ErrInvalidConfig)
	}
	return nil
}
