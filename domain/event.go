package domain

import "time"

// EventKind names a notification emitted by the engine or the timer.
type EventKind string

const (
	EventLevelUp           EventKind = "level_up"
	EventTaskCompleted     EventKind = "task_completed"
	EventTaskDeleted       EventKind = "task_deleted"
	EventDailyBonusAwarded EventKind = "daily_bonus_awarded"
	EventTimerCompleted    EventKind = "timer_completed"
)

// BonusKind distinguishes the two daily bonuses.
type BonusKind string

const (
	BonusDailyGoal  BonusKind = "daily_goal"
	BonusPerfectDay BonusKind = "perfect_day"
)

// Event represents a change worth presenting to the user.
type Event struct {
	Kind   EventKind  `json:"kind"`
	TaskID string     `json:"task_id,omitempty"`
	Level  *LevelTier `json:"level,omitempty"`
	Bonus  BonusKind  `json:"bonus,omitempty"`
	Amount int        `json:"amount,omitempty"`
	At     time.Time  `json:"at"`
}

func LevelUp(tier LevelTier, at time.Time) Event {
	return Event{Kind: EventLevelUp, Level: &tier, At: at}
}

func TaskCompleted(id string, at time.Time) Event {
	return Event{Kind: EventTaskCompleted, TaskID: id, At: at}
}

func TaskDeleted(id string, at time.Time) Event {
	return Event{Kind: EventTaskDeleted, TaskID: id, At: at}
}

func DailyBonusAwarded(bonus BonusKind, amount int, at time.Time) Event {
	return Event{Kind: EventDailyBonusAwarded, Bonus: bonus, Amount: amount, At: at}
}

func TimerCompleted(at time.Time) Event {
	return Event{Kind: EventTimerCompleted, At: at}
}
