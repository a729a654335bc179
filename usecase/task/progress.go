package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
)

// Stats summarises the board and the progress for dashboards.
type Stats struct {
	TotalTasks     int               `json:"totalTasks"`
	ActiveTasks    int               `json:"activeTasks"`
	CompletedTasks int               `json:"completedTasks"`
	CompletedToday int               `json:"completedToday"`
	DueToday       int               `json:"dueToday"`
	TotalCompleted int               `json:"totalCompleted"`
	Experience     int               `json:"experience"`
	Streak         int               `json:"streak"`
	Level          domain.LevelTier  `json:"level"`
	NextLevel      *domain.LevelTier `json:"nextLevel,omitempty"`
	LevelProgress  float64           `json:"levelProgress"`
}

// AddExperience grants experience outside of a completion, e.g. a manual reward.
// A zero amount only refreshes the derived level.
func (e *Engine) AddExperience(ctx context.Context, amount int, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.addExperience(ctx, amount, reason); err != nil {
		return err
	}
	if amount > 0 {
		e.persist(ctx)
	}
	return nil
}

func (e *Engine) addExperience(ctx context.Context, amount int, reason string) error {
	if amount < 0 {
		return domain.ErrInvalidAmount
	}
	before := e.progress.Level
	e.progress.Experience += amount
	e.progress.Sync(e.levels)

	if amount > 0 {
		e.logger.Debug("experience awarded",
			zap.Int("amount", amount),
			zap.String("reason", reason),
			zap.Int("experience", e.progress.Experience))
	}
	if e.progress.Level > before {
		tier := e.levels.Tier(e.progress.Level)
		e.logger.Info("level up", zap.Int("level", tier.Level), zap.String("title", tier.Title))
		e.emit(ctx, domain.LevelUp(tier, e.now()))
	}
	return nil
}

// award is addExperience for amounts taken from validated rules.
func (e *Engine) award(ctx context.Context, amount int, reason string) {
	if err := e.addExperience(ctx, amount, reason); err != nil {
		e.logger.Error("reward rejected", zap.String("reason", reason), zap.Error(err))
	}
}

func (e *Engine) checkDailyGoal(ctx context.Context, today domain.Date) {
	if domain.SameDay(e.progress.DailyGoalAwardedOn, today) {
		return
	}
	if e.completedOn(today) < e.rules.DailyGoalThreshold {
		return
	}
	e.progress.RecordDailyGoal(today)
	e.emit(ctx, domain.DailyBonusAwarded(domain.BonusDailyGoal, e.rules.DailyGoalXP, e.now()))
	e.award(ctx, e.rules.DailyGoalXP, "daily goal")
}

func (e *Engine) checkPerfectDay(ctx context.Context, today domain.Date) {
	if domain.SameDay(e.progress.PerfectDayAwardedOn, today) {
		return
	}
	due, done := 0, 0
	for t := range e.tasks.All() {
		if !t.DueOn(today) {
			continue
		}
		due++
		if t.Completed {
			done++
		}
	}
	if due == 0 || done < due {
		return
	}
	e.progress.PerfectDayAwardedOn = domain.DatePtr(today)
	e.emit(ctx, domain.DailyBonusAwarded(domain.BonusPerfectDay, e.rules.PerfectDayXP, e.now()))
	e.award(ctx, e.rules.PerfectDayXP, "perfect day")
}

func (e *Engine) completedOn(day domain.Date) int {
	n := 0
	for t := range e.tasks.All() {
		if t.Completed && domain.SameDay(t.CompletedAt, day) {
			n++
		}
	}
	return n
}

// Progress returns a copy of the progress with the streak as seen today.
func (e *Engine) Progress() domain.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.progress
	p.Streak = p.StreakOn(e.Today())
	return p
}

// Stats computes the dashboard summary.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.Today()
	s := Stats{
		TotalCompleted: e.progress.TotalCompleted,
		Experience:     e.progress.Experience,
		Streak:         e.progress.StreakOn(today),
		Level:          e.levels.Tier(e.progress.Level),
		LevelProgress:  e.levels.Progress(e.progress.Experience),
	}
	if next, ok := e.levels.Next(e.progress.Level); ok {
		s.NextLevel = &next
	}
	for t := range e.tasks.All() {
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
			if domain.SameDay(t.CompletedAt, today) {
				s.CompletedToday++
			}
		} else {
			s.ActiveTasks++
		}
		if t.DueOn(today) {
			s.DueToday++
		}
	}
	return s
}
