package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/clock"
	"github.com/fastygo/todowa/repository"
	"github.com/fastygo/todowa/usecase"
)

// Timer is a Pomodoro countdown driven by one Tick per second.
type Timer struct {
	mu     sync.Mutex
	state  domain.TimerState
	repo   repository.TimerRepository
	sink   usecase.NotificationSink
	clock  clock.Clock
	logger *zap.Logger
}

// New builds a stopped timer of the given length. repo and sink may be nil.
func New(minutes int, repo repository.TimerRepository, sink usecase.NotificationSink, c clock.Clock, logger *zap.Logger) *Timer {
	if sink == nil {
		sink = usecase.NopSink{}
	}
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Timer{
		repo:   repo,
		sink:   sink,
		clock:  c,
		logger: logger,
	}
	t.state = domain.NewTimerState(minutes * 60)
	t.state.UpdatedAt = c.Now()
	return t
}

// Restore picks up a saved countdown. Time spent while the process was down counts
// against a running timer; one that ran out meanwhile comes back reset.
func (t *Timer) Restore(ctx context.Context) error {
	if t.repo == nil {
		return nil
	}
	saved, err := t.repo.Get(ctx)
	if errors.Is(err, domain.ErrTimerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	state := *saved
	if state.Total <= 0 {
		state = domain.NewTimerState(t.state.Total)
	}
	now := t.clock.Now()
	if state.Ticking() && !state.UpdatedAt.IsZero() {
		state.Remaining -= int(now.Sub(state.UpdatedAt).Seconds())
		if state.Remaining <= 0 {
			state = domain.NewTimerState(state.Total)
		}
	}
	state.UpdatedAt = now
	t.state = state
	t.logger.Info("timer restored", zap.Int("remaining", state.Remaining), zap.Bool("running", state.Running))
	return nil
}

// State returns a copy of the countdown.
func (t *Timer) State() domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start begins counting down. It does nothing while the timer is already running.
func (t *Timer) Start(ctx context.Context) domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Running {
		return t.state
	}
	t.state.Running = true
	t.state.Paused = false
	t.saveLocked(ctx)
	return t.state
}

// Pause toggles between paused and counting. A stopped timer is left alone.
func (t *Timer) Pause(ctx context.Context) domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Running {
		return t.state
	}
	t.state.Paused = !t.state.Paused
	t.saveLocked(ctx)
	return t.state
}

// Reset stops the timer and refills it.
func (t *Timer) Reset(ctx context.Context) domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
	t.saveLocked(ctx)
	return t.state
}

// SetPreset changes the block length and resets.
func (t *Timer) SetPreset(ctx context.Context, minutes int) (domain.TimerState, error) {
	if minutes < 1 {
		return t.State(), domain.Invalidf("timer preset must be at least one minute, got %d", minutes)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Total = minutes * 60
	t.resetLocked()
	t.saveLocked(ctx)
	return t.state, nil
}

// Tick advances the countdown by one second and reports whether the block finished.
// Plain ticks are not persisted; Restore accounts for them from UpdatedAt.
func (t *Timer) Tick(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Ticking() {
		return false
	}
	t.state.Remaining--
	if t.state.Remaining > 0 {
		return false
	}

	t.resetLocked()
	t.saveLocked(ctx)
	t.logger.Info("focus block completed", zap.Int("total", t.state.Total))
	t.sink.Notify(ctx, domain.TimerCompleted(t.clock.Now()))
	return true
}

func (t *Timer) resetLocked() {
	t.state.Running = false
	t.state.Paused = false
	t.state.Remaining = t.state.Total
}

func (t *Timer) saveLocked(ctx context.Context) {
	t.state.UpdatedAt = t.clock.Now()
	if t.repo == nil {
		return
	}
	if err := t.repo.Save(ctx, t.state); err != nil {
		t.logger.Warn("timer state not saved", zap.Error(err))
	}
}

// Format renders seconds as MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
