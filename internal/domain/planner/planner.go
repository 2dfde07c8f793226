// Package planner composes personalized practice sessions from skill
// ratings, recent activity and a same-day fatigue estimate.
package planner

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/coachkit/coachkit/internal/adapters/activitylog"
	"github.com/coachkit/coachkit/internal/adapters/skillstore"
	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
)

// Tuning holds the allocation and fatigue policy knobs.
type Tuning struct {
	// DefaultDuration is the session length in minutes when the caller
	// passes zero.
	DefaultDuration int `json:"default_duration" koanf:"default_duration"`
	// FocusShare is the fraction of the duration reserved for weak-skill
	// training; the remainder goes to variety.
	FocusShare float64 `json:"focus_share" koanf:"focus_share"`
	// FatigueThreshold is the level above which the plan is truncated.
	FatigueThreshold float64 `json:"fatigue_threshold" koanf:"fatigue_threshold"`
	// RecentWindow is the trailing window for "recently trained" modules.
	RecentWindow time.Duration `json:"recent_window" koanf:"recent_window"`
	// SessionsPerDay and TrialsPerDay are the same-day volumes at which
	// the fatigue level saturates.
	SessionsPerDay int `json:"sessions_per_day" koanf:"sessions_per_day"`
	TrialsPerDay   int `json:"trials_per_day" koanf:"trials_per_day"`
}

// DefaultTuning returns the default policy.
func DefaultTuning() Tuning {
	return Tuning{
		DefaultDuration:  20,
		FocusShare:       0.6,
		FatigueThreshold: 0.5,
		RecentWindow:     7 * 24 * time.Hour,
		SessionsPerDay:   3,
		TrialsPerDay:     100,
	}
}

// Selection-policy constants.
const (
	weakSkillPool    = 5 // weakest skills considered
	focusSkillLimit  = 2 // weak skills actually targeted
	fatiguedPlanSize = 2 // recommendations kept under high fatigue
)

// Recommendation is one ranked module suggestion inside a plan.
type Recommendation struct {
	ModuleID string `json:"module_id"`
	Minutes  int    `json:"minutes"`
	Reason   string `json:"reason"`
	Priority int    `json:"priority"`
}

// Plan is the composer's output: ranked module recommendations with time
// allocations and rationale. Constructed fresh on every call.
type Plan struct {
	Modules     []Recommendation `json:"modules"`
	FocusSkills []string         `json:"focus_skills"`
	Fatigue     float64          `json:"fatigue"`
	Reasoning   []string         `json:"reasoning"`
	ComposedAt  time.Time        `json:"composed_at"`
}

// Composer is the stateless planning component. It only reads from its
// stores and returns disposable plans; it owns no state of its own.
type Composer struct {
	skills   *skillstore.Store
	activity *activitylog.Log
	tuning   Tuning
	clock    func() time.Time
	rng      *rand.Rand
	log      logger.Logger
}

// Option applies a configuration option to the Composer.
type Option func(*Composer)

// WithTuning overrides the allocation and fatigue policy.
func WithTuning(t Tuning) Option {
	return func(c *Composer) {
		if t.DefaultDuration > 0 {
			c.tuning.DefaultDuration = t.DefaultDuration
		}
		if t.FocusShare > 0 && t.FocusShare < 1 {
			c.tuning.FocusShare = t.FocusShare
		}
		if t.FatigueThreshold > 0 {
			c.tuning.FatigueThreshold = t.FatigueThreshold
		}
		if t.RecentWindow > 0 {
			c.tuning.RecentWindow = t.RecentWindow
		}
		if t.SessionsPerDay > 0 {
			c.tuning.SessionsPerDay = t.SessionsPerDay
		}
		if t.TrialsPerDay > 0 {
			c.tuning.TrialsPerDay = t.TrialsPerDay
		}
	}
}

// WithClock injects the current-time source.
func WithClock(clock func() time.Time) Option {
	return func(c *Composer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRand injects a seedable random source so variety selection is
// deterministic under test.
func WithRand(rng *rand.Rand) Option {
	return func(c *Composer) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Composer) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a composer over the given stores. Either store may be nil;
// Compose then reports ErrUnavailable instead of planning.
func New(skills *skillstore.Store, activity *activitylog.Log, opts ...Option) *Composer {
	c := &Composer{
		skills:   skills,
		activity: activity,
		tuning:   DefaultTuning(),
		clock:    time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // variety pick, not security sensitive
		log:      logger.Get().Named("planner"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds a session plan for the given duration in minutes. Zero
// uses the default duration; negative durations are rejected.
func (c *Composer) Compose(ctx context.Context, duration int) (*Plan, error) {
	if c.skills == nil || c.activity == nil {
		return nil, ErrUnavailable
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, duration)
	}
	if duration == 0 {
		duration = c.tuning.DefaultDuration
	}

	start := time.Now()
	defer func() {
		metrics.RecordComposeDuration(time.Since(start).Seconds())
	}()

	now := c.clock()
	catalog := c.skills.Catalog()

	weakest := c.skills.Weakest(weakSkillPool)
	recent := c.recentModules(now)
	fatigue := c.estimateFatigue(now)

	focusBudget := int(math.Round(float64(duration) * c.tuning.FocusShare))
	varietyBudget := duration - focusBudget

	plan := &Plan{Fatigue: fatigue, ComposedAt: now}

	// Focus: target the two weakest skills with modules that train them,
	// skipping anything trained within the recent window.
	targets := weakest
	if len(targets) > focusSkillLimit {
		targets = targets[:focusSkillLimit]
	}
	targetIDs := make([]string, len(targets))
	for i, sk := range targets {
		targetIDs[i] = sk.ID
	}

	avoid := make([]string, 0, len(recent))
	for _, m := range recent {
		avoid = append(avoid, m)
	}
	picks := c.selectForTargets(targetIDs, avoid)
	focusModules := make([]string, len(picks))
	for i, p := range picks {
		focusModules[i] = p.moduleID
	}

	if len(picks) > 0 {
		perModule := focusBudget / len(picks)
		for _, p := range picks {
			sk := targets[p.targetIdx]
			name := catalog.Skill(sk.ID).Name
			rounded := int(math.Round(sk.Rating))
			plan.Modules = append(plan.Modules, Recommendation{
				ModuleID: p.moduleID,
				Minutes:  perModule,
				Reason:   fmt.Sprintf("strengthens %s (rating %d)", name, rounded),
				Priority: len(plan.Modules) + 1,
			})
			plan.FocusSkills = append(plan.FocusSkills, sk.ID)
			plan.Reasoning = append(plan.Reasoning, fmt.Sprintf(
				"Targeting weakest skill %s (rating %d) with %s",
				name, rounded, catalog.ModuleName(p.moduleID)))
		}
	}

	// Variety: one random module outside the recent and focus sets, with
	// the full catalog as fallback when the exclusions leave nothing.
	if varietyBudget > 0 {
		exclude := append(append([]string{}, avoid...), focusModules...)
		varietyID := c.pickVariety(catalog, exclude)
		plan.Modules = append(plan.Modules, Recommendation{
			ModuleID: varietyID,
			Minutes:  varietyBudget,
			Reason:   "keeps training varied",
			Priority: len(plan.Modules) + 1,
		})
		plan.Reasoning = append(plan.Reasoning, fmt.Sprintf(
			"Adding %s for variety", catalog.ModuleName(varietyID)))
	}

	// High fatigue truncates the plan rather than overloading the user.
	if fatigue > c.tuning.FatigueThreshold {
		if len(plan.Modules) > fatiguedPlanSize {
			plan.Modules = plan.Modules[:fatiguedPlanSize]
		}
		plan.Reasoning = append(plan.Reasoning, fmt.Sprintf(
			"High fatigue detected (%.0f%%), keeping the session short", fatigue*100))
	}

	metrics.IncrementPlansComposed()
	metrics.UpdateFatigueLevel(fatigue)

	c.log.Debug(ctx, "plan composed",
		logger.Int("duration", duration),
		logger.Int("modules", len(plan.Modules)),
		logger.Float64("fatigue", fatigue))

	return plan, nil
}

// SelectModulesForSkills picks up to one module per target skill, scoring
// every catalog module by how many of its trained skills intersect the
// target set. Modules in avoidModules are never returned; ties resolve by
// catalog order. The result holds distinct modules.
func (c *Composer) SelectModulesForSkills(skillIDs []string, avoidModules []string) []string {
	picks := c.selectForTargets(skillIDs, avoidModules)
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.moduleID
	}
	return out
}

type focusPick struct {
	moduleID  string
	targetIdx int
}

func (c *Composer) selectForTargets(skillIDs []string, avoidModules []string) []focusPick {
	catalog := c.skills.Catalog()

	targetSet := make(map[string]bool, len(skillIDs))
	for _, id := range skillIDs {
		targetSet[id] = true
	}
	avoid := make(map[string]bool, len(avoidModules))
	for _, id := range avoidModules {
		avoid[id] = true
	}

	picks := make([]focusPick, 0, len(skillIDs))
	chosen := make(map[string]bool, len(skillIDs))

	for idx, skillID := range skillIDs {
		best := ""
		bestScore := 0
		for _, m := range catalog.Modules() {
			if avoid[m.ID] || chosen[m.ID] {
				continue
			}
			trainsTarget := false
			score := 0
			for _, sk := range m.Skills {
				if targetSet[sk] {
					score++
				}
				if sk == skillID {
					trainsTarget = true
				}
			}
			// Catalog order breaks ties: a later module must beat, not
			// match, the current best.
			if trainsTarget && score > bestScore {
				best = m.ID
				bestScore = score
			}
		}
		if best != "" {
			picks = append(picks, focusPick{moduleID: best, targetIdx: idx})
			chosen[best] = true
		}
	}
	return picks
}

// EstimateFatigue returns the current fatigue level in [0, 1], derived from
// same-day session and trial volume. Zero when the activity log is absent.
func (c *Composer) EstimateFatigue() float64 {
	if c.activity == nil {
		return 0
	}
	return c.estimateFatigue(c.clock())
}

func (c *Composer) estimateFatigue(now time.Time) float64 {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sessions := 0
	trials := 0
	for _, s := range c.activity.History("") {
		if !s.StartedAt.Before(dayStart) {
			sessions++
			trials += s.Trials
		}
	}

	bySessions := float64(sessions) / float64(c.tuning.SessionsPerDay)
	byTrials := float64(trials) / float64(c.tuning.TrialsPerDay)
	return math.Min(1, math.Max(bySessions, byTrials))
}

// recentModules returns the distinct module ids trained inside the recent
// window, in first-seen order.
func (c *Composer) recentModules(now time.Time) []string {
	cutoff := now.Add(-c.tuning.RecentWindow)

	seen := make(map[string]bool)
	var out []string
	for _, s := range c.activity.History("") {
		if s.StartedAt.After(cutoff) && !seen[s.ModuleID] {
			seen[s.ModuleID] = true
			out = append(out, s.ModuleID)
		}
	}
	return out
}

// pickVariety draws a uniform random module outside the excluded set,
// falling back to the full catalog when the exclusions empty it.
func (c *Composer) pickVariety(catalog *model.Catalog, exclude []string) string {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var candidates []string
	for _, id := range catalog.ModuleIDs() {
		if !excluded[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		candidates = catalog.ModuleIDs()
	}
	return candidates[c.rng.Intn(len(candidates))]
}
