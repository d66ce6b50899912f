package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

type fakeStore struct {
	mu      sync.Mutex
	remote  domain.AggregateState
	loadErr error
	saveErr error
	saves   []domain.AggregateState
}

func (f *fakeStore) Load(ctx context.Context) (domain.AggregateState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote.Clone(), f.loadErr
}

func (f *fakeStore) Save(ctx context.Context, st domain.AggregateState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, st.Clone())
	return f.saveErr
}

func (f *fakeStore) saved() []domain.AggregateState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AggregateState(nil), f.saves...)
}

var fast = Config{Debounce: 20 * time.Millisecond, Quiet: 60 * time.Millisecond, Timeout: time.Second}

func setRate(t *testing.T, st *state.Store, rate float64) {
	t.Helper()
	if err := st.Update(func(a *domain.AggregateState, _ time.Time) error {
		a.HourlyRate = rate
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBurstOfChangesIsPushedOnce(t *testing.T) {
	fs := &fakeStore{}
	st := state.New(state.Default(time.Now()))
	s := New(fs, st, fast)
	s.Start()
	defer s.Close(context.Background())

	for i := 1; i <= 5; i++ {
		setRate(t, st, float64(10+i))
	}
	waitFor(t, func() bool { return len(fs.saved()) == 1 })
	time.Sleep(3 * fast.Debounce)

	saves := fs.saved()
	if len(saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(saves))
	}
	if saves[0].HourlyRate != 15 {
		t.Fatalf("pushed rate %v, want the last value 15", saves[0].HourlyRate)
	}
}

func TestPullMergesAndDoesNotEcho(t *testing.T) {
	now := time.Now()
	remote := domain.EmptyState(now)
	remote.HourlyRate = 40
	remote.RetailItems = []domain.RetailItem{{ID: "i1", Name: "Chalk", Price: 1, Stock: 9}}
	fs := &fakeStore{remote: remote}

	st := state.New(state.Default(now))
	s := New(fs, st, fast)
	s.Start()
	defer s.Close(context.Background())

	if err := s.Pull(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := st.Snapshot()
	if got.HourlyRate != 40 || len(got.RetailItems) != 1 {
		t.Fatalf("remote not applied: rate=%v items=%d", got.HourlyRate, len(got.RetailItems))
	}
	if len(got.Tables) != 4 {
		t.Fatalf("empty remote tables should keep local seed, got %d", len(got.Tables))
	}

	time.Sleep(fast.Debounce * 3)
	if n := len(fs.saved()); n != 0 {
		t.Fatalf("pull echoed %d saves", n)
	}

	time.Sleep(fast.Quiet)
	setRate(t, st, 41)
	waitFor(t, func() bool { return len(fs.saved()) == 1 })
}

func TestPullFailureKeepsLocalState(t *testing.T) {
	fs := &fakeStore{loadErr: errors.New("offline")}
	st := state.New(state.Default(time.Now()))
	s := New(fs, st, fast)
	if err := s.Pull(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(st.Snapshot().Tables) != 4 {
		t.Fatal("local state changed after failed pull")
	}
}

func TestFailedPushIsNotRetried(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("disk full")}
	st := state.New(state.Default(time.Now()))
	s := New(fs, st, fast)
	s.Start()
	defer s.Close(context.Background())

	setRate(t, st, 22)
	waitFor(t, func() bool { return len(fs.saved()) == 1 })
	time.Sleep(5 * fast.Debounce)
	if n := len(fs.saved()); n != 1 {
		t.Fatalf("saves = %d, want 1", n)
	}
	if st.Snapshot().HourlyRate != 22 {
		t.Fatal("local state rolled back after failed push")
	}
}

func TestCloseFlushesPendingChange(t *testing.T) {
	fs := &fakeStore{}
	st := state.New(state.Default(time.Now()))
	s := New(fs, st, Config{Debounce: time.Hour, Quiet: time.Millisecond, Timeout: time.Second})
	s.Start()

	setRate(t, st, 33)
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	saves := fs.saved()
	if len(saves) != 1 || saves[0].HourlyRate != 33 {
		t.Fatalf("close did not flush: %+v", saves)
	}

	setRate(t, st, 34)
	time.Sleep(10 * time.Millisecond)
	if len(fs.saved()) != 1 {
		t.Fatal("closed syncer kept pushing")
	}
}
