// Package syncer mirrors the in-memory aggregate to a durable store:
// pulls once at startup, then pushes debounced snapshots after changes.
package syncer

import (
	"context"
	"sync"
	"time"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
	"poolhall/internal/state"
)

// Store is the durable side: a single document read and written whole.
type Store interface {
	Load(ctx context.Context) (domain.AggregateState, error)
	Save(ctx context.Context, st domain.AggregateState) error
}

type Config struct {
	Debounce time.Duration // quiet time before a burst of changes is pushed
	Quiet    time.Duration // changes right after a pull are not pushed back
	Timeout  time.Duration // per push
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if c.Quiet <= 0 {
		c.Quiet = 300 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

type Syncer struct {
	store Store
	state *state.Store
	cfg   Config

	mu         sync.Mutex
	timer      *time.Timer
	pending    *domain.AggregateState
	quietUntil time.Time
	unsub      func()
	closed     bool

	saveMu sync.Mutex // pushes never overlap, so the last snapshot wins
}

func New(store Store, st *state.Store, cfg Config) *Syncer {
	return &Syncer{store: store, state: st, cfg: cfg.withDefaults()}
}

// Start subscribes to state changes.
func (s *Syncer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub == nil {
		s.unsub = s.state.Subscribe(s.onChange)
	}
}

// Pull loads the remote snapshot and overlays it on the local state. A
// failed pull is logged and leaves the local state as it was.
func (s *Syncer) Pull(ctx context.Context) error {
	remote, err := s.store.Load(ctx)
	if err != nil {
		applog.Error(nil, "sync.pull.fail", err, nil)
		return err
	}
	s.mu.Lock()
	s.quietUntil = time.Now().Add(s.cfg.Quiet)
	s.mu.Unlock()

	s.state.Replace(state.Merge(s.state.Snapshot(), remote))
	applog.Info(nil, "sync.pull", map[string]any{
		"tables":   len(remote.Tables),
		"sessions": len(remote.Sessions),
		"updated":  remote.UpdatedAt,
	})
	return nil
}

func (s *Syncer) onChange(snap domain.AggregateState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || time.Now().Before(s.quietUntil) {
		return
	}
	s.pending = &snap
	if s.timer == nil {
		s.timer = time.AfterFunc(s.cfg.Debounce, s.flush)
		return
	}
	s.timer.Reset(s.cfg.Debounce)
}

func (s *Syncer) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	_ = s.push(ctx)
}

// push writes the pending snapshot, if any. Failures are logged and the
// snapshot is dropped; the next change schedules a fresh push.
func (s *Syncer) push(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()
	if snap == nil {
		return nil
	}
	if err := s.store.Save(ctx, *snap); err != nil {
		applog.Error(nil, "sync.push.fail", err, map[string]any{"updated": snap.UpdatedAt})
		return err
	}
	applog.Info(nil, "sync.push", map[string]any{"updated": snap.UpdatedAt})
	return nil
}

// Close stops listening and pushes whatever change is still waiting.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.push(ctx)
}
