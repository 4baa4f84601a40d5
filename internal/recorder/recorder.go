package recorder

import "time"

// SessionEvent records an observed change of an exchange's session status.
type SessionEvent struct {
	Exchange   string
	Status     string // "OPEN", "CLOSED" or "WEEKEND"
	PrevStatus string // empty on the first observation after start
	LocalTime  string // exchange-local HH:MM
	At         time.Time
}

// Recorder persists session history for later analysis.
type Recorder interface {
	RecordSessionTransition(evt *SessionEvent) error
	Close() error
}
