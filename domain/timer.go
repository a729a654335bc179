package domain

import "time"

// DefaultTimerSeconds is a 25 minute focus block.
const DefaultTimerSeconds = 25 * 60

// TimerState is the Pomodoro countdown.
type TimerState struct {
	Running   bool      `json:"running"`
	Paused    bool      `json:"paused"`
	Remaining int       `json:"remaining"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTimerState(totalSeconds int) TimerState {
	if totalSeconds <= 0 {
		totalSeconds = DefaultTimerSeconds
	}
	return TimerState{Remaining: totalSeconds, Total: totalSeconds}
}

// Ticking reports whether a tick should count down.
func (s TimerState) Ticking() bool {
	return s.Running && !s.Paused
}

// Elapsed is the fraction of the block already spent, in [0,1].
func (s TimerState) Elapsed() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Total-s.Remaining) / float64(s.Total)
}

// Expiry is how long the state is worth keeping in a TTL store.
func (s TimerState) Expiry() time.Duration {
	return time.Duration(s.Remaining)*time.Second + time.Hour
}
