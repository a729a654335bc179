package monitor

import "time"

// Component is the health of one backing service. Disabled components never fail.
type Component struct {
	Enabled bool   `json:"enabled"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

func (c Component) ok() bool {
	return !c.Enabled || c.Healthy
}

type Status struct {
	Postgres   Component `json:"postgres"`
	Redis      Component `json:"redis"`
	Outbox     Component `json:"outbox"`
	OutboxSize int       `json:"outbox_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether every enabled component answered.
func (s Status) Healthy() bool {
	return s.Postgres.ok() && s.Redis.ok() && s.Outbox.ok()
}
