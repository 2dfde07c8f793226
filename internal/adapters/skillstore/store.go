// Package skillstore owns the skill catalog and per-skill proficiency
// ratings, and answers ranked queries over them.
package skillstore

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/internal/domain/rating"
	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
)

// state is the mutable per-skill record backing the index.
type state struct {
	rating float64
	trials int
	pos    int // catalog position; skills created at runtime get the next slot
}

// Store is the skill store. It exclusively owns and mutates skill ratings.
// All mutations run under a single writer lock.
type Store struct {
	mu      sync.RWMutex
	catalog *model.Catalog
	params  rating.Params

	byID  map[string]*state
	order []string // all known skill ids in position order
	root  *node
	rng   *rand.Rand // treap priorities only

	onChange func() // fire-and-forget persistence hook, may be nil
	log      logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithParams overrides the learning-rate parameters.
func WithParams(p rating.Params) Option {
	return func(s *Store) {
		if p.Validate() == nil {
			s.params = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithOnChange registers a hook invoked after every mutation. Used to
// trigger best-effort persistence; the store never waits on it.
func WithOnChange(fn func()) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// New creates a store seeded with every catalog skill at the default rating.
func New(catalog *model.Catalog, opts ...Option) *Store {
	s := &Store{
		catalog: catalog,
		params:  rating.DefaultParams(),
		byID:    make(map[string]*state, catalog.NumSkills()),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // treap priorities, not security sensitive
		log:     logger.Get().Named("skillstore"),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, id := range catalog.SkillIDs() {
		s.create(id)
	}

	metrics.UpdateCatalogSkills(catalog.NumSkills())
	metrics.UpdateCatalogModules(catalog.NumModules())

	return s
}

// create registers a skill at the default rating. Caller holds the lock or
// is still single-threaded construction.
func (s *Store) create(id string) *state {
	st := &state{rating: model.RatingDefault, pos: len(s.order)}
	s.byID[id] = st
	s.order = append(s.order, id)
	s.root = insert(s.root, id, st.rating, st.pos, s.rng.Uint64())
	return st
}

// UpdateRating applies one trial outcome to a skill and returns the new
// rating. Unknown skill ids are created at the default rating first.
func (s *Store) UpdateRating(ctx context.Context, skillID string, t model.Trial) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	st, ok := s.byID[skillID]
	if !ok {
		s.log.Debug(ctx, "creating unknown skill at default rating",
			logger.String("skill", skillID))
		st = s.create(skillID)
	}

	newRating := s.params.Update(st.rating, t.Difficulty, t.Correct, st.trials)

	s.root = deleteNode(s.root, st.rating, st.pos)
	s.root = insert(s.root, skillID, newRating, st.pos, s.rng.Uint64())
	st.rating = newRating
	st.trials++
	s.mu.Unlock()

	metrics.IncrementRatingUpdates()
	s.changed()

	s.log.Debug(ctx, "rating updated",
		logger.String("skill", skillID),
		logger.Bool("correct", t.Correct),
		logger.Float64("difficulty", t.Difficulty),
		logger.Float64("rating", newRating))

	return newRating, nil
}

// UpdateModuleSkills applies one trial to every skill the module trains.
// Unknown module ids are a silent no-op.
func (s *Store) UpdateModuleSkills(ctx context.Context, moduleID string, t model.Trial) error {
	if err := t.Validate(); err != nil {
		return err
	}

	skills, ok := s.catalog.ModuleSkills(moduleID)
	if !ok {
		s.log.Debug(ctx, "skipping trial for unknown module",
			logger.String("module", moduleID))
		return nil
	}
	for _, id := range skills {
		if _, err := s.UpdateRating(ctx, id, t); err != nil {
			return err
		}
	}
	return nil
}

// Weakest returns the n lowest-rated skills, rating ascending, ties broken
// by catalog position. n is clamped to the catalog size.
func (s *Store) Weakest(n int) []model.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.order) {
		n = len(s.order)
	}
	if n <= 0 {
		return nil
	}
	ids := make([]string, 0, n)
	collectWeakest(s.root, n, &ids)
	return s.skillsFor(ids)
}

// Strongest returns the n highest-rated skills, rating descending, ties
// broken by catalog position. n is clamped to the catalog size.
func (s *Store) Strongest(n int) []model.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.order) {
		n = len(s.order)
	}
	if n <= 0 {
		return nil
	}

	asc := make([]rankedID, 0, len(s.order))
	collectAscending(s.root, &asc)

	// Walk rating groups from strongest to weakest, keeping the in-group
	// (catalog position) order intact.
	ids := make([]string, 0, n)
	end := len(asc)
	for end > 0 && len(ids) < n {
		start := end - 1
		for start > 0 && asc[start-1].rating == asc[end-1].rating {
			start--
		}
		for i := start; i < end && len(ids) < n; i++ {
			ids = append(ids, asc[i].id)
		}
		end = start
	}
	return s.skillsFor(ids)
}

// All returns every known skill in position order.
func (s *Store) All() []model.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skillsFor(s.order)
}

// Get returns one skill by id.
func (s *Store) Get(skillID string) (model.Skill, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[skillID]
	if !ok {
		return model.Skill{}, false
	}
	return s.toSkill(skillID, st), true
}

// Reset restores every skill to the default rating and clears trial
// counters. Idempotent.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.root = nil
	for _, id := range s.order {
		st := s.byID[id]
		st.rating = model.RatingDefault
		st.trials = 0
		s.root = insert(s.root, id, st.rating, st.pos, s.rng.Uint64())
	}
	s.mu.Unlock()

	s.changed()
	s.log.Info(ctx, "all skills reset to default rating",
		logger.Int("skills", len(s.order)))
}

// SkillState is the persisted form of one skill's mutable state.
type SkillState struct {
	Rating float64 `json:"rating"`
	Trials int     `json:"trials"`
}

// Export returns a snapshot of all mutable skill state for persistence.
func (s *Store) Export() map[string]SkillState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]SkillState, len(s.byID))
	for id, st := range s.byID {
		out[id] = SkillState{Rating: st.rating, Trials: st.trials}
	}
	return out
}

// Restore replaces skill state from a persisted snapshot. Ratings are
// clamped to the valid scale; unknown ids are created.
func (s *Store) Restore(states map[string]SkillState) {
	s.mu.Lock()
	for id, snap := range states {
		st, ok := s.byID[id]
		if !ok {
			st = s.create(id)
		}
		s.root = deleteNode(s.root, st.rating, st.pos)
		st.rating = rating.Clamp(snap.Rating)
		if snap.Trials > 0 {
			st.trials = snap.Trials
		}
		s.root = insert(s.root, id, st.rating, st.pos, s.rng.Uint64())
	}
	s.mu.Unlock()
}

// Catalog returns the static module-to-skills mapping.
func (s *Store) Catalog() *model.Catalog {
	return s.catalog
}

func (s *Store) skillsFor(ids []string) []model.Skill {
	out := make([]model.Skill, 0, len(ids))
	for _, id := range ids {
		if st, ok := s.byID[id]; ok {
			out = append(out, s.toSkill(id, st))
		}
	}
	return out
}

func (s *Store) toSkill(id string, st *state) model.Skill {
	spec := s.catalog.Skill(id)
	return model.Skill{
		ID:       id,
		Name:     spec.Name,
		Rating:   st.rating,
		Category: spec.Category,
		Trials:   st.trials,
	}
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
