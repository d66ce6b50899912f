// Package queue publishes domain events to RabbitMQ. Publishing is best
// effort: the till keeps working when the broker is down.
package queue

import "time"

const SessionCompletedQueue = "session.completed"

// SessionCompletedEvent is emitted once a table session has been paid.
type SessionCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	TableID     string    `json:"table_id"`
	TableName   string    `json:"table_name"`
	SessionType string    `json:"session_type"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	HourlyRate  float64   `json:"hourly_rate"`
	TotalAmount float64   `json:"total_amount"`
}
