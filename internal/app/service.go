// Package app provides the core service that wires the skill store, the
// activity log, the session composer and best-effort persistence together
// behind one facade the CLI drives.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/coachkit/coachkit/internal/adapters/activitylog"
	"github.com/coachkit/coachkit/internal/adapters/persistence"
	"github.com/coachkit/coachkit/internal/adapters/skillstore"
	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/internal/domain/planner"
	"github.com/coachkit/coachkit/internal/domain/rating"
	"github.com/coachkit/coachkit/pkg/logger"
)

// Service owns the trainer's components for one user.
type Service struct {
	catalog  *model.Catalog
	skills   *skillstore.Store
	activity *activitylog.Log
	composer *planner.Composer

	store     persistence.Store
	persister *persistence.Persister

	params rating.Params
	tuning planner.Tuning
	clock  func() time.Time
	rng    *rand.Rand

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the module catalog.
func WithCatalog(c *model.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithRatingParams sets the learning-rate parameters.
func WithRatingParams(p rating.Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithTuning sets the planner policy.
func WithTuning(t planner.Tuning) Option {
	return func(s *Service) {
		s.tuning = t
	}
}

// WithPersistenceStore enables best-effort persistence on the given store.
// Without it the service is purely in-memory.
func WithPersistenceStore(store persistence.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithClock injects the current-time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRand injects the random source used for variety selection.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog: model.DefaultCatalog(),
		params:  rating.DefaultParams(),
		tuning:  planner.DefaultTuning(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("app")
	}
	return s
}

// Start wires the components and restores the latest snapshot best-effort.
// Idempotent: starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}

	s.skills = skillstore.New(s.catalog,
		skillstore.WithParams(s.params),
		skillstore.WithOnChange(s.requestSave),
	)
	s.activity = activitylog.New(
		activitylog.WithClock(s.clock),
		activitylog.WithCatalog(s.catalog),
		activitylog.WithOnChange(s.requestSave),
	)

	composerOpts := []planner.Option{
		planner.WithTuning(s.tuning),
		planner.WithClock(s.clock),
	}
	if s.rng != nil {
		composerOpts = append(composerOpts, planner.WithRand(s.rng))
	}
	s.composer = planner.New(s.skills, s.activity, composerOpts...)

	s.persister = persistence.NewPersister(s.store, s.snapshot)
	s.restore(ctx)
	s.persister.Start(ctx)

	s.started = true
	s.log.Info(ctx, "trainer service started",
		logger.Int("modules", s.catalog.NumModules()),
		logger.Int("skills", s.catalog.NumSkills()),
		logger.Bool("persistence", s.store != nil))
	return nil
}

// Stop flushes one final snapshot and shuts the persister down.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	ctx := context.Background()
	if err := s.persister.SaveNow(ctx); err != nil {
		s.log.Warn(ctx, "final snapshot save failed", logger.Error(err))
	}
	s.persister.Close()
	s.started = false
	s.log.Info(ctx, "trainer service stopped")
}

// requestSave is the stores' mutation hook.
func (s *Service) requestSave() {
	if s.persister != nil {
		s.persister.Request()
	}
}

func (s *Service) snapshot() persistence.Snapshot {
	return persistence.Snapshot{
		SavedAt:  s.clock(),
		Ratings:  s.skills.Export(),
		Sessions: s.activity.Export(),
	}
}

// restore loads the latest snapshot. All failures degrade to a fresh state
// with a logged warning; persistence is never load-bearing.
func (s *Service) restore(ctx context.Context) {
	if s.store == nil {
		return
	}
	value, ok, err := s.store.Load(ctx, persistence.DefaultKey)
	if err != nil {
		s.log.Warn(ctx, "snapshot load failed, starting fresh", logger.Error(err))
		return
	}
	if !ok {
		return
	}
	snap, err := persistence.DecodeSnapshot(value)
	if err != nil {
		s.log.Warn(ctx, "snapshot unreadable, starting fresh", logger.Error(err))
		return
	}
	s.skills.Restore(snap.Ratings)
	s.activity.Restore(snap.Sessions)
	s.log.Info(ctx, "state restored",
		logger.Int("skills", len(snap.Ratings)),
		logger.Int("sessions", len(snap.Sessions)),
		logger.Time("saved_at", snap.SavedAt))
}

// Compose builds a session plan for the given duration in minutes.
func (s *Service) Compose(ctx context.Context, duration int) (*planner.Plan, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.composer.Compose(ctx, duration)
}

// Explain renders a plan as text.
func (s *Service) Explain(plan *planner.Plan) string {
	return s.composer.Explain(plan)
}

// RecordSession runs one complete session for a module: every trial updates
// the module's skills and the session is appended to history.
func (s *Service) RecordSession(ctx context.Context, moduleID string, trials []model.Trial) (model.Session, error) {
	if !s.started {
		return model.Session{}, ErrNotStarted
	}

	session, err := s.activity.Start(ctx, moduleID)
	if err != nil {
		return model.Session{}, err
	}
	for i, t := range trials {
		if err := t.Validate(); err != nil {
			// Abandon cleanly so the log is not left with an open session.
			if _, endErr := session.End(ctx); endErr != nil {
				s.log.Warn(ctx, "ending aborted session failed", logger.Error(endErr))
			}
			return model.Session{}, fmt.Errorf("trial %d: %w", i+1, err)
		}
		if err := session.RecordTrial(ctx); err != nil {
			return model.Session{}, err
		}
		if err := s.skills.UpdateModuleSkills(ctx, moduleID, t); err != nil {
			return model.Session{}, err
		}
	}
	return session.End(ctx)
}

// Skills returns every skill in catalog order.
func (s *Service) Skills() []model.Skill {
	if !s.started {
		return nil
	}
	return s.skills.All()
}

// Weakest returns the n weakest skills.
func (s *Service) Weakest(n int) []model.Skill {
	if !s.started {
		return nil
	}
	return s.skills.Weakest(n)
}

// Strongest returns the n strongest skills.
func (s *Service) Strongest(n int) []model.Skill {
	if !s.started {
		return nil
	}
	return s.skills.Strongest(n)
}

// History returns session records, optionally filtered by module.
func (s *Service) History(moduleID string) []model.Session {
	if !s.started {
		return nil
	}
	return s.activity.History(moduleID)
}

// ModuleStats aggregates a module's recorded activity.
func (s *Service) ModuleStats(moduleID string) model.ModuleStats {
	if !s.started {
		return model.ModuleStats{ModuleID: moduleID}
	}
	return s.activity.ModuleStats(moduleID)
}

// Fatigue returns the current fatigue estimate.
func (s *Service) Fatigue() float64 {
	if !s.started {
		return 0
	}
	return s.composer.EstimateFatigue()
}

// ResetSkills restores every skill to the default rating.
func (s *Service) ResetSkills(ctx context.Context) error {
	if !s.started {
		return ErrNotStarted
	}
	s.skills.Reset(ctx)
	return nil
}

// ClearHistory empties the session history.
func (s *Service) ClearHistory(ctx context.Context) error {
	if !s.started {
		return ErrNotStarted
	}
	s.activity.ClearAll(ctx)
	return nil
}

// Catalog returns the static module catalog.
func (s *Service) Catalog() *model.Catalog {
	return s.catalog
}
