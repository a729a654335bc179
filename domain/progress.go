package domain

// Progress is the gamification state of a profile.
// Level is derived from Experience and is recomputed by Sync; a stored value is never trusted.
type Progress struct {
	Experience          int   `json:"experience"`
	Level               int   `json:"level"`
	Streak              int   `json:"streak"`
	TotalCompleted      int   `json:"totalCompleted"`
	DailyGoalAwardedOn  *Date `json:"dailyGoalAwardedOn,omitempty"`
	PerfectDayAwardedOn *Date `json:"perfectDayAwardedOn,omitempty"`
}

// NewProgress returns the state of a fresh profile.
func NewProgress() Progress {
	return Progress{}
}

// Sync recomputes the derived level.
func (p *Progress) Sync(levels LevelTable) {
	p.Level = levels.LevelFor(p.Experience)
}

// StreakOn returns the streak as seen on day: it lapses once a full day passes without the goal.
func (p Progress) StreakOn(day Date) int {
	if p.DailyGoalAwardedOn == nil {
		return 0
	}
	last := *p.DailyGoalAwardedOn
	if last.Equal(day) || last.Equal(day.AddDays(-1)) {
		return p.Streak
	}
	return 0
}

// RecordDailyGoal marks the goal as met on day and advances the streak.
func (p *Progress) RecordDailyGoal(day Date) {
	if p.DailyGoalAwardedOn != nil && p.DailyGoalAwardedOn.Equal(day.AddDays(-1)) {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.DailyGoalAwardedOn = DatePtr(day)
}

// RecordUncompletion decrements the completion counter, flooring at zero.
func (p *Progress) RecordUncompletion() {
	if p.TotalCompleted > 0 {
		p.TotalCompleted--
	}
}

// Validate rejects negative counters.
func (p Progress) Validate() error {
	if p.Experience < 0 {
		return Invalidf("experience must not be negative")
	}
	if p.Streak < 0 {
		return Invalidf("streak must not be negative")
	}
	if p.TotalCompleted < 0 {
		return Invalidf("totalCompleted must not be negative")
	}
	return nil
}

// ProgressPatch overlays individual progress fields. Nil means "keep".
type ProgressPatch struct {
	Experience          *int  `json:"experience,omitempty"`
	Level               *int  `json:"level,omitempty"`
	Streak              *int  `json:"streak,omitempty"`
	TotalCompleted      *int  `json:"totalCompleted,omitempty"`
	DailyGoalAwardedOn  *Date `json:"dailyGoalAwardedOn,omitempty"`
	PerfectDayAwardedOn *Date `json:"perfectDayAwardedOn,omitempty"`
}

// Overlay applies the patch to p. Level is accepted for compatibility but ignored.
func (p Progress) Overlay(patch ProgressPatch) Progress {
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.Streak != nil {
		p.Streak = *patch.Streak
	}
	if patch.TotalCompleted != nil {
		p.TotalCompleted = *patch.TotalCompleted
	}
	if patch.DailyGoalAwardedOn != nil {
		p.DailyGoalAwardedOn = DatePtr(*patch.DailyGoalAwardedOn)
	}
	if patch.PerfectDayAwardedOn != nil {
		p.PerfectDayAwardedOn = DatePtr(*patch.PerfectDayAwardedOn)
	}
	return p
}
