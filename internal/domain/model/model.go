// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rating scale bounds shared by skills and trial difficulties.
const (
	RatingFloor   = 800.0
	RatingCeiling = 2400.0
	RatingDefault = 1500.0
)

// Skill is a single trainable skill with its current proficiency estimate.
type Skill struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"` // always within [RatingFloor, RatingCeiling]
	Category string  `json:"category,omitempty"`
	Trials   int     `json:"trials"` // recorded trial count, drives the K decay
}

// Trial is one attempt at a training task. It is an ephemeral input to the
// rating update; only the count survives inside a Session record.
type Trial struct {
	Correct      bool          `json:"correct"`
	Difficulty   float64       `json:"difficulty" validate:"required,gte=800,lte=2400"`
	ReactionTime time.Duration `json:"reaction_time,omitempty" validate:"gte=0"`
	ErrorTag     string        `json:"error_tag,omitempty"`
}

var validate = validator.New()

// Validate rejects malformed trial data at the boundary.
func (t Trial) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid trial: %w", err)
	}
	return nil
}

// Session is one completed training run. Records are append-only and never
// mutated after creation.
type Session struct {
	ID        string        `json:"id"`
	ModuleID  string        `json:"module_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Trials    int           `json:"trials"`
}

// ModuleStats aggregates a module's recorded activity.
type ModuleStats struct {
	ModuleID    string `json:"module_id"`
	Sessions    int    `json:"sessions"`
	TotalTrials int    `json:"total_trials"`
}
