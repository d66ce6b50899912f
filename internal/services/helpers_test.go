package services_test

import (
	"testing"
	"time"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

// clock is a settable time source shared by a test and its store.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore(t *testing.T) (*state.Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)}
	st := state.New(state.Default(c.t))
	st.SetClock(c.now)
	return st, c
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func tableByID(t *testing.T, st domain.AggregateState, id string) domain.BilliardTable {
	t.Helper()
	for _, tb := range st.Tables {
		if tb.ID == id {
			return tb
		}
	}
	t.Fatalf("table %s missing", id)
	return domain.BilliardTable{}
}

func itemByID(t *testing.T, st domain.AggregateState, id string) domain.RetailItem {
	t.Helper()
	for _, it := range st.RetailItems {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s missing", id)
	return domain.RetailItem{}
}

// checkTableInvariants asserts status and session stay in lockstep.
func checkTableInvariants(t *testing.T, st domain.AggregateState) {
	t.Helper()
	for _, tb := range st.Tables {
		if (tb.Status == domain.TableAvailable) != (tb.CurrentSession == nil) {
			t.Fatalf("table %s: status %s with session %v", tb.ID, tb.Status, tb.CurrentSession)
		}
		if tb.CurrentSession != nil && (tb.CurrentSession.EndedElapsedMs != nil) != (tb.Status == domain.TableClosed) {
			t.Fatalf("table %s: endedElapsedMs out of sync with status %s", tb.ID, tb.Status)
		}
	}
}
