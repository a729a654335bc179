package repository

import (
	"context"

	"github.com/fastygo/todowa/domain"
)

// TimerRepository keeps the Pomodoro countdown between restarts.
type TimerRepository interface {
	Get(ctx context.Context) (*domain.TimerState, error)
	Save(ctx context.Context, state domain.TimerState) error
	Delete(ctx context.Context) error
}
