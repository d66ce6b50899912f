package repos_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"poolhall/internal/domain"
	"poolhall/internal/repos"
	"poolhall/internal/state"
)

type stateStore interface {
	Load(ctx context.Context) (domain.AggregateState, error)
	Save(ctx context.Context, st domain.AggregateState) error
}

func sampleState() domain.AggregateState {
	now := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	st := state.Default(now)
	amount := 15.0
	end := now.Add(time.Hour)
	st.Sessions = append(st.Sessions, domain.TableSession{
		ID: "session-1", TableID: "table-1", TableName: "Table 1", StartTime: now, EndTime: &end,
		SessionType: domain.SessionOpen, HourlyRate: 15, TotalAmount: &amount, Status: domain.SessionCompleted,
	})
	st.UpdatedAt = now.UnixMilli()
	return st
}

// exerciseStore checks the behaviour every backend shares.
func exerciseStore(t *testing.T, s stateStore) {
	t.Helper()
	ctx := context.Background()

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.HourlyRate != 15 || first.Tables == nil || len(first.Tables) != 0 || first.Sessions == nil || first.UpdatedAt == 0 {
		t.Fatalf("first load should return the default shape, got %+v", first)
	}

	want := sampleState()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Tables) != 4 || len(got.PriceCategories) != 3 || len(got.Sessions) != 1 {
		t.Fatalf("collections lost: %+v", got)
	}
	if *got.Sessions[0].TotalAmount != 15 || !got.Sessions[0].StartTime.Equal(want.Sessions[0].StartTime) {
		t.Fatalf("session mangled: %+v", got.Sessions[0])
	}
	if got.UpdatedAt != want.UpdatedAt {
		t.Fatalf("updatedAt: want %d got %d", want.UpdatedAt, got.UpdatedAt)
	}

	// second save overwrites
	want.HourlyRate = 30
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Load(ctx); got.HourlyRate != 30 {
		t.Fatalf("overwrite lost: %v", got.HourlyRate)
	}
}

func TestStateRepo_SQLite(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	exerciseStore(t, repos.NewStateRepo(db, ""))

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM kv_state`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want a single row, got %d", n)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.json")
	exerciseStore(t, repos.NewFileStore(path))

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatal("want decode error")
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := repos.NewRedisClient(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store := repos.NewRedisStore(client, "")
	defer store.Close()

	exerciseStore(t, store)

	if ttl := mr.TTL(repos.StateKey); ttl != repos.DefaultStateTTL {
		t.Fatalf("want ttl %s, got %s", repos.DefaultStateTTL, ttl)
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := repos.NewRedisClient(addr, "", 0); err == nil {
		t.Fatal("want ping error")
	}
}
