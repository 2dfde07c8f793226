package persistence

import (
	"context"
	"time"

	"github.com/coachkit/coachkit/pkg/logger"
	"github.com/coachkit/coachkit/pkg/metrics"
)

// Persister turns store mutations into asynchronous, fire-and-forget
// snapshot saves. Requests are coalesced through a one-slot channel: a
// burst of mutations while a save is in flight collapses into a single
// follow-up save. Failures are logged warnings and never propagate to the
// operation that triggered them.
type Persister struct {
	store    Store
	key      string
	snapshot func() Snapshot

	requests chan struct{}
	done     chan struct{}
	log      logger.Logger
}

// Option applies a configuration option to the Persister.
type Option func(*Persister)

// WithKey overrides the store key snapshots are saved under.
func WithKey(key string) Option {
	return func(p *Persister) {
		if key != "" {
			p.key = key
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Persister) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPersister creates a persister writing snapshots built by the given
// function to the store. Nil stores are allowed; every request then becomes
// a no-op, which keeps persistence strictly optional for callers.
func NewPersister(store Store, snapshot func() Snapshot, opts ...Option) *Persister {
	p := &Persister{
		store:    store,
		key:      DefaultKey,
		snapshot: snapshot,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      logger.Get().Named("persistence"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the drain loop. It runs until ctx is canceled or Close is
// called.
func (p *Persister) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-p.requests:
				if !ok {
					close(p.done)
					return
				}
				p.save(ctx)
			}
		}
	}()
}

// Request schedules a snapshot save. Never blocks: when a save is already
// pending the request folds into it.
func (p *Persister) Request() {
	if p.store == nil {
		return
	}
	select {
	case p.requests <- struct{}{}:
	default:
	}
}

// Close stops the drain loop after the pending request, if any, is served.
func (p *Persister) Close() {
	if p.store == nil {
		return
	}
	close(p.requests)
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
	}
}

// SaveNow performs one synchronous snapshot save. Used for the final flush
// on shutdown; errors are returned so the caller can log them, but they are
// still non-fatal.
func (p *Persister) SaveNow(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	return p.write(ctx)
}

func (p *Persister) save(ctx context.Context) {
	if err := p.write(ctx); err != nil {
		metrics.IncrementPersistenceFailures()
		p.log.Warn(ctx, "snapshot save failed", logger.Error(err))
	}
}

func (p *Persister) write(ctx context.Context) error {
	start := time.Now()
	value, err := p.snapshot().Encode()
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, p.key, value); err != nil {
		return err
	}
	metrics.IncrementSnapshotSaves()
	metrics.RecordSnapshotSaveDuration(time.Since(start).Seconds())
	return nil
}
