package task

import (
	"context"

	"github.com/fastygo/todowa/domain"
)

func (e *Engine) Settings() domain.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings applies a patch; an invalid theme leaves the settings untouched.
func (e *Engine) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.settings.Apply(patch)
	if err != nil {
		return e.settings, err
	}
	e.settings = next
	e.persist(ctx)
	return next, nil
}

// CycleTheme switches to the next theme.
func (e *Engine) CycleTheme(ctx context.Context) domain.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.Theme = e.settings.Theme.Next()
	e.persist(ctx)
	return e.settings
}
