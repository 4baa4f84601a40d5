package model

// MarketWindow is the static trading window of one exchange.
type MarketWindow struct {
	ID       string `yaml:"id" validate:"required"`
	Name     string `yaml:"name" validate:"required"`
	Timezone string `yaml:"timezone" validate:"required"`
	Open     string `yaml:"open" validate:"required"`  // "HH:MM" local
	Close    string `yaml:"close" validate:"required"` // "HH:MM" local
}

// SessionStatus is the three-way state of an exchange.
type SessionStatus string

const (
	StatusOpen    SessionStatus = "OPEN"
	StatusClosed  SessionStatus = "CLOSED"
	StatusWeekend SessionStatus = "WEEKEND"
)

// ExchangeStatus is the evaluated state of one window at one instant.
type ExchangeStatus struct {
	Window    MarketWindow
	Status    SessionStatus
	LocalTime string // "HH:MM"
}

// IsOpen reports whether the status is OPEN.
func (s ExchangeStatus) IsOpen() bool { return s.Status == StatusOpen }
