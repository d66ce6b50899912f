package services

import (
	"time"

	"poolhall/internal/domain"
)

const (
	msPerHour    = int64(time.Hour / time.Millisecond)
	msPerQuarter = msPerHour / 4
)

// CalculateAmount prices a session. Fixed sessions with a declared
// duration cost duration*rate no matter how long they ran; everything else
// is billed per started quarter hour.
func CalculateAmount(elapsedMs int64, sessionType domain.SessionType, fixedDuration *float64, hourlyRate float64) float64 {
	if sessionType == domain.SessionFixed && fixedDuration != nil && *fixedDuration != 0 {
		return *fixedDuration * hourlyRate
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	quarters := (elapsedMs + msPerQuarter - 1) / msPerQuarter
	return float64(quarters) / 4 * hourlyRate
}

// Live is what a table card shows between refresh ticks.
type Live struct {
	ElapsedMs int64   `json:"elapsedMs"`
	Amount    float64 `json:"amount"`
	Overtime  bool    `json:"overtime"`
}

// LiveView computes the display values of a table at now. A closed table
// shows its frozen duration; a table whose session vanished shows zero.
func LiveView(t domain.BilliardTable, now time.Time) Live {
	s := t.CurrentSession
	if s == nil {
		return Live{}
	}
	var elapsed int64
	switch t.Status {
	case domain.TableRunning:
		elapsed = now.Sub(s.StartTime).Milliseconds()
		if elapsed < 0 {
			elapsed = 0
		}
	case domain.TableClosed:
		if s.EndedElapsedMs != nil {
			elapsed = *s.EndedElapsedMs
		}
	default:
		return Live{}
	}
	v := Live{
		ElapsedMs: elapsed,
		Amount:    CalculateAmount(elapsed, s.SessionType, s.FixedDuration, s.HourlyRate),
	}
	if s.SessionType == domain.SessionFixed && s.FixedDuration != nil && *s.FixedDuration > 0 {
		v.Overtime = float64(elapsed) >= *s.FixedDuration*float64(msPerHour)
	}
	return v
}
