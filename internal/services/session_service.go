package services

import (
	"fmt"
	"time"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

type SessionService struct {
	State *state.Store
}

func NewSessionService(st *state.Store) *SessionService {
	return &SessionService{State: st}
}

func findTable(st *domain.AggregateState, id string) (*domain.BilliardTable, error) {
	for i := range st.Tables {
		if st.Tables[i].ID == id {
			return &st.Tables[i], nil
		}
	}
	return nil, fmt.Errorf("table %s: %w", id, ErrNotFound)
}

func findSession(st *domain.AggregateState, id string) (*domain.TableSession, error) {
	for i := range st.Sessions {
		if st.Sessions[i].ID == id {
			return &st.Sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
}

// StartSession opens a session on an available table, snapshotting the
// rate resolved right now.
func (s *SessionService) StartSession(tableID string, typ domain.SessionType, fixedDuration *float64) (domain.TableSession, error) {
	if !typ.Valid() {
		return domain.TableSession{}, fmt.Errorf("session type %q: %w", typ, ErrInvalidInput)
	}
	if fixedDuration != nil && *fixedDuration < 0 {
		return domain.TableSession{}, fmt.Errorf("fixed duration %v: %w", *fixedDuration, ErrInvalidInput)
	}
	var out domain.TableSession
	err := s.State.Update(func(st *domain.AggregateState, now time.Time) error {
		t, err := findTable(st, tableID)
		if err != nil {
			return err
		}
		if t.Status != domain.TableAvailable || t.CurrentSession != nil {
			return fmt.Errorf("start on %s table %s: %w", t.Status, t.ID, ErrInvalidState)
		}
		sess := domain.TableSession{
			ID:          newID("session"),
			TableID:     t.ID,
			TableName:   t.Name,
			StartTime:   now,
			SessionType: typ,
			HourlyRate:  ResolveRate(*t, st.PriceCategories, st.HourlyRate),
		}
		if typ == domain.SessionFixed && fixedDuration != nil {
			d := *fixedDuration
			sess.FixedDuration = &d
		}
		t.Status = domain.TableRunning
		t.CurrentSession = &sess
		out = sess.Clone()
		return nil
	})
	return out, err
}

// EndSession stops the clock. elapsedMs is the duration the operator saw;
// nil records zero. The session stays on the table until it is paid.
func (s *SessionService) EndSession(tableID string, elapsedMs *int64) (domain.TableSession, error) {
	var frozen int64
	if elapsedMs != nil {
		frozen = *elapsedMs
	}
	if frozen < 0 {
		return domain.TableSession{}, fmt.Errorf("elapsed %d: %w", frozen, ErrInvalidInput)
	}
	var out domain.TableSession
	err := s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		t, err := findTable(st, tableID)
		if err != nil {
			return err
		}
		if t.Status != domain.TableRunning || t.CurrentSession == nil {
			return fmt.Errorf("end on %s table %s: %w", t.Status, t.ID, ErrInvalidState)
		}
		t.Status = domain.TableClosed
		t.CurrentSession.EndedElapsedMs = &frozen
		out = t.CurrentSession.Clone()
		return nil
	})
	return out, err
}

// CompletePayment prices the closed session from its frozen duration,
// archives it and frees the table.
func (s *SessionService) CompletePayment(tableID string) (domain.TableSession, error) {
	var out domain.TableSession
	err := s.State.Update(func(st *domain.AggregateState, now time.Time) error {
		t, err := findTable(st, tableID)
		if err != nil {
			return err
		}
		if t.Status != domain.TableClosed || t.CurrentSession == nil {
			return fmt.Errorf("pay on %s table %s: %w", t.Status, t.ID, ErrInvalidState)
		}
		sess := t.CurrentSession.Clone()
		var elapsed int64
		if sess.EndedElapsedMs != nil {
			elapsed = *sess.EndedElapsedMs
		}
		amount := CalculateAmount(elapsed, sess.SessionType, sess.FixedDuration, sess.HourlyRate)
		end := now
		if end.Before(sess.StartTime) {
			end = sess.StartTime
		}
		sess.EndTime = &end
		sess.TotalAmount = &amount
		sess.Status = domain.SessionCompleted

		st.Sessions = append(st.Sessions, sess)
		t.Status = domain.TableAvailable
		t.CurrentSession = nil
		out = sess.Clone()
		return nil
	})
	return out, err
}

// UpdateFixedDuration changes the contracted hours of a fixed session that
// has not been paid yet.
func (s *SessionService) UpdateFixedDuration(tableID string, hours float64) error {
	if hours <= 0 {
		return fmt.Errorf("fixed duration %v: %w", hours, ErrInvalidInput)
	}
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		t, err := findTable(st, tableID)
		if err != nil {
			return err
		}
		if t.CurrentSession == nil || t.CurrentSession.SessionType != domain.SessionFixed {
			return fmt.Errorf("table %s has no fixed session: %w", t.ID, ErrInvalidState)
		}
		h := hours
		t.CurrentSession.FixedDuration = &h
		return nil
	})
}

// VoidSession flags an archived session; it stays in the ledger for audit.
func (s *SessionService) VoidSession(sessionID string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		sess, err := findSession(st, sessionID)
		if err != nil {
			return err
		}
		if sess.Voided() {
			return fmt.Errorf("session %s already voided: %w", sess.ID, ErrInvalidState)
		}
		sess.Status = domain.SessionVoided
		return nil
	})
}

// SessionPatch carries the fields EditSession may overwrite; nil means
// keep.
type SessionPatch struct {
	TableName     *string             `json:"tableName"`
	StartTime     *time.Time          `json:"startTime"`
	EndTime       *time.Time          `json:"endTime"`
	SessionType   *domain.SessionType `json:"sessionType"`
	FixedDuration *float64            `json:"fixedDuration"`
	HourlyRate    *float64            `json:"hourlyRate"`
	TotalAmount   *float64            `json:"totalAmount"`
}

// EditSession corrects an archived session in place. The patch is
// rejected as a whole if the result would break endTime >= startTime or
// totalAmount >= 0.
func (s *SessionService) EditSession(sessionID string, p SessionPatch) (domain.TableSession, error) {
	var out domain.TableSession
	err := s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		sess, err := findSession(st, sessionID)
		if err != nil {
			return err
		}
		next := sess.Clone()
		if p.TableName != nil {
			next.TableName = *p.TableName
		}
		if p.StartTime != nil {
			next.StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			e := *p.EndTime
			next.EndTime = &e
		}
		if p.SessionType != nil {
			if !p.SessionType.Valid() {
				return fmt.Errorf("session type %q: %w", *p.SessionType, ErrInvalidInput)
			}
			next.SessionType = *p.SessionType
		}
		if p.FixedDuration != nil {
			if *p.FixedDuration < 0 {
				return fmt.Errorf("fixed duration %v: %w", *p.FixedDuration, ErrInvalidInput)
			}
			d := *p.FixedDuration
			next.FixedDuration = &d
		}
		if p.HourlyRate != nil {
			if *p.HourlyRate < 0 {
				return fmt.Errorf("hourly rate %v: %w", *p.HourlyRate, ErrInvalidInput)
			}
			next.HourlyRate = *p.HourlyRate
		}
		if p.TotalAmount != nil {
			a := *p.TotalAmount
			next.TotalAmount = &a
		}
		if next.EndTime != nil && next.EndTime.Before(next.StartTime) {
			return fmt.Errorf("end before start: %w", ErrInvalidInput)
		}
		if next.TotalAmount != nil && *next.TotalAmount < 0 {
			return fmt.Errorf("negative total: %w", ErrInvalidInput)
		}
		*sess = next
		out = next.Clone()
		return nil
	})
	return out, err
}
