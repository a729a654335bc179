package domain

import "fmt"

// Rules holds the numeric constants of the reward system.
type Rules struct {
	CompletionXP       int `json:"completion_xp" yaml:"completion_xp"`
	DailyGoalThreshold int `json:"daily_goal_threshold" yaml:"daily_goal_threshold"`
	DailyGoalXP        int `json:"daily_goal_xp" yaml:"daily_goal_xp"`
	PerfectDayXP       int `json:"perfect_day_xp" yaml:"perfect_day_xp"`
}

// DefaultRules returns the stock reward constants.
func DefaultRules() Rules {
	return Rules{
		CompletionXP:       2,
		DailyGoalThreshold: 3,
		DailyGoalXP:        5,
		PerfectDayXP:       15,
	}
}

func (r Rules) Validate() error {
	if r.CompletionXP < 0 || r.DailyGoalXP < 0 || r.PerfectDayXP < 0 {
		return fmt.Errorf("reward amounts must not be negative")
	}
	if r.DailyGoalThreshold < 1 {
		return fmt.Errorf("daily goal threshold must be at least 1, got %d", r.DailyGoalThreshold)
	}
	return nil
}
