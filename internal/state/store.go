// Package state holds the single in-memory aggregate every command mutates.
package state

import (
	"sync"
	"time"

	"poolhall/internal/domain"
)

// Listener receives a snapshot after each committed change. Listeners run
// in commit order and must not issue commands on the same Store.
type Listener func(domain.AggregateState)

type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	st       domain.AggregateState

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int

	clock func() time.Time
}

func New(initial domain.AggregateState) *Store {
	return &Store{
		st:        initial.Clone(),
		listeners: map[int]Listener{},
		clock:     time.Now,
	}
}

// SetClock swaps the time source (tests).
func (s *Store) SetClock(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = fn
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock()
}

func (s *Store) Snapshot() domain.AggregateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Update runs fn against a working copy and commits it only when fn returns
// nil, so a rejected command leaves no trace. A panicking fn leaves the
// state untouched and the store usable.
func (s *Store) Update(fn func(st *domain.AggregateState, now time.Time) error) error {
	s.mu.Lock()
	handedOff := false
	defer func() {
		if !handedOff {
			s.mu.Unlock()
		}
	}()
	now := s.clock()
	work := s.st.Clone()
	if err := fn(&work, now); err != nil {
		return err
	}
	work.UpdatedAt = now.UnixMilli()
	s.st = work
	// publishLocked releases mu itself.
	handedOff = true
	s.publishLocked()
	return nil
}

// Replace swaps the whole aggregate, e.g. with a snapshot loaded from the
// remote store.
func (s *Store) Replace(next domain.AggregateState) {
	s.mu.Lock()
	s.st = next.Clone()
	s.publishLocked()
}

// publishLocked releases mu and fans out a snapshot. notifyMu is taken
// before mu is released so listeners observe commits in order.
func (s *Store) publishLocked() {
	snap := s.st.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.lmu.Lock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.lmu.Unlock()

	for _, l := range ls {
		l(snap)
	}
}

// Subscribe registers l and returns a func that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}
