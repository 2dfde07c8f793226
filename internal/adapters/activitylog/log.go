// Package activitylog owns the append-only record of completed training
// sessions and answers the history queries recency and fatigue are
// computed from.
package activitylog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coachkit/coachkit/internal/domain/model"
	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
)

// Log is the activity log. Session records are append-only; history is
// returned as copies so callers can never mutate it.
type Log struct {
	mu       sync.RWMutex
	clock    func() time.Time
	catalog  *model.Catalog // optional; enables module validation at start
	sessions []model.Session
	open     *Session

	onChange func()
	log      logger.Logger
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithClock injects the current-time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithCatalog enables module-id validation when starting sessions.
func WithCatalog(c *model.Catalog) Option {
	return func(l *Log) {
		l.catalog = c
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Log) {
		if log != nil {
			l.log = log
		}
	}
}

// WithOnChange registers a hook invoked after every appended session.
func WithOnChange(fn func()) Option {
	return func(l *Log) {
		l.onChange = fn
	}
}

// New creates an empty activity log.
func New(opts ...Option) *Log {
	l := &Log{
		clock: time.Now,
		log:   logger.Get().Named("activitylog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Session is the handle for the one open session. Trials are recorded
// through it and it must be ended exactly once.
type Session struct {
	id        string
	moduleID  string
	startedAt time.Time
	trials    int
	closed    bool
	owner     *Log
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// ModuleID returns the module the session trains.
func (s *Session) ModuleID() string { return s.moduleID }

// Start opens a new session for the module. Starting while another session
// is open returns ErrSessionOpen; the unfinished session is never silently
// discarded.
func (l *Log) Start(ctx context.Context, moduleID string) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.open != nil {
		return nil, fmt.Errorf("%w: module %s", ErrSessionOpen, l.open.moduleID)
	}
	if l.catalog != nil {
		if _, ok := l.catalog.ModulePosition(moduleID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
		}
	}

	s := &Session{
		id:        uuid.NewString(),
		moduleID:  moduleID,
		startedAt: l.clock(),
		owner:     l,
	}
	l.open = s
	metrics.UpdateSessionOpen(true)

	l.log.Debug(ctx, "session started",
		logger.String("session", s.id),
		logger.String("module", moduleID))
	return s, nil
}

// RecordTrial counts one trial against the open session.
func (s *Session) RecordTrial(ctx context.Context) error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.owner.open != s {
		return ErrNoOpenSession
	}
	s.trials++
	metrics.IncrementTrialsRecorded()
	return nil
}

// End finalizes the session, appends it to history and closes the handle.
// Ending twice returns ErrSessionClosed.
func (s *Session) End(ctx context.Context) (model.Session, error) {
	l := s.owner
	l.mu.Lock()
	if s.closed {
		l.mu.Unlock()
		return model.Session{}, ErrSessionClosed
	}
	now := l.clock()
	rec := model.Session{
		ID:        s.id,
		ModuleID:  s.moduleID,
		StartedAt: s.startedAt,
		Duration:  now.Sub(s.startedAt),
		Trials:    s.trials,
	}
	s.closed = true
	l.open = nil
	l.sessions = append(l.sessions, rec)
	l.mu.Unlock()

	metrics.UpdateSessionOpen(false)
	metrics.IncrementSessionsFinished()
	l.changed()

	l.log.Info(ctx, "session finished",
		logger.String("session", rec.ID),
		logger.String("module", rec.ModuleID),
		logger.Int("trials", rec.Trials),
		logger.Duration("duration", rec.Duration))
	return rec, nil
}

// History returns session records ordered by start time ascending. An empty
// moduleID returns everything. The result is a fresh copy on every call.
func (l *Log) History(moduleID string) []model.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		if moduleID == "" || s.ModuleID == moduleID {
			out = append(out, s)
		}
	}
	return out
}

// ModuleStats aggregates session and trial counts for one module.
func (l *Log) ModuleStats(moduleID string) model.ModuleStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := model.ModuleStats{ModuleID: moduleID}
	for _, s := range l.sessions {
		if s.ModuleID == moduleID {
			stats.Sessions++
			stats.TotalTrials += s.Trials
		}
	}
	return stats
}

// ClearAll empties the history. Idempotent; an open session survives.
func (l *Log) ClearAll(ctx context.Context) {
	l.mu.Lock()
	n := len(l.sessions)
	l.sessions = nil
	l.mu.Unlock()

	l.changed()
	l.log.Info(ctx, "session history cleared", logger.Int("removed", n))
}

// Export returns a copy of all session records for persistence.
func (l *Log) Export() []model.Session {
	return l.History("")
}

// Restore replaces history from a persisted snapshot, re-sorting by start
// time so the ascending-order invariant holds regardless of input order.
func (l *Log) Restore(sessions []model.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sessions = make([]model.Session, len(sessions))
	copy(l.sessions, sessions)
	sort.SliceStable(l.sessions, func(i, j int) bool {
		return l.sessions[i].StartedAt.Before(l.sessions[j].StartedAt)
	})
}

func (l *Log) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}
