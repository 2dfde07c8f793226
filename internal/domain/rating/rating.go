// Package rating implements the Elo-style proficiency update.
//
// A skill's rating and a trial's difficulty share one scale,
// [model.RatingFloor, model.RatingCeiling]. The expected success probability
// follows the logistic Elo curve and the adjustment size shrinks as the
// skill accumulates recorded trials.
package rating

import (
	"fmt"
	"math"

	"github.com/coachkit/coachkit/internal/domain/model"
)

// Default learning-rate parameters.
const (
	defaultKMax     = 32.0
	defaultKMin     = 8.0
	defaultKDecay   = 20.0 // trials until K has halved from KMax
	logisticDivisor = 400.0
)

// Params configures the rating update.
type Params struct {
	// KMax is the learning-rate coefficient applied to a skill with no
	// recorded trials.
	KMax float64 `json:"k_max" koanf:"k_max"`
	// KMin is the floor the coefficient decays towards; it keeps ratings
	// responsive no matter how much history a skill has.
	KMin float64 `json:"k_min" koanf:"k_min"`
	// KDecay is the trial count at which the coefficient has halved.
	KDecay float64 `json:"k_decay" koanf:"k_decay"`
}

// DefaultParams returns the default learning-rate parameters.
func DefaultParams() Params {
	return Params{KMax: defaultKMax, KMin: defaultKMin, KDecay: defaultKDecay}
}

// Validate checks parameter sanity.
func (p Params) Validate() error {
	if p.KMin <= 0 {
		return fmt.Errorf("%w: k_min %f must be positive", ErrInvalidParams, p.KMin)
	}
	if p.KMax < p.KMin {
		return fmt.Errorf("%w: k_max %f below k_min %f", ErrInvalidParams, p.KMax, p.KMin)
	}
	if p.KDecay <= 0 {
		return fmt.Errorf("%w: k_decay %f must be positive", ErrInvalidParams, p.KDecay)
	}
	return nil
}

// K returns the learning-rate coefficient for a skill with the given number
// of recorded trials: K(n) = max(KMin, KMax / (1 + n/KDecay)).
// Monotonically non-increasing in n and bounded below by KMin.
func (p Params) K(trials int) float64 {
	if trials < 0 {
		trials = 0
	}
	k := p.KMax / (1 + float64(trials)/p.KDecay)
	return math.Max(k, p.KMin)
}

// Expected returns the probability that a skill at the given rating succeeds
// on a trial of the given difficulty: 1 / (1 + 10^((difficulty-rating)/400)).
func Expected(rating, difficulty float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (difficulty-rating)/logisticDivisor))
}

// Update applies one trial outcome and returns the new, clamped rating.
// trials is the number of trials recorded before this one.
func (p Params) Update(rating, difficulty float64, correct bool, trials int) float64 {
	actual := 0.0
	if correct {
		actual = 1.0
	}
	delta := p.K(trials) * (actual - Expected(rating, difficulty))
	return Clamp(rating + delta)
}

// Clamp bounds a rating to the valid scale.
func Clamp(r float64) float64 {
	return math.Min(math.Max(r, model.RatingFloor), model.RatingCeiling)
}
