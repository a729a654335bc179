package task

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
)

// Load replaces the in-memory state with the stored snapshot.
// A missing snapshot leaves the fresh state in place. When the store cannot be read, or
// holds a snapshot that fails validation, the error is returned and the engine keeps
// running in memory without ever saving over the stored data. Reset lifts that guard.
func (e *Engine) Load(ctx context.Context) error {
	if e.gateway == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.gateway.Load(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		e.unloaded = false
		e.logger.Info("no stored snapshot, starting fresh")
		return nil
	}
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeUnavailable) && !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			err = domain.Unavailable("load snapshot", err)
		}
		return e.loadFailedLocked(err)
	}
	if err := domain.ValidateTasks(snapshot.Tasks); err != nil {
		return e.loadFailedLocked(domain.WrapError(domain.ErrCodeInvalid, "stored snapshot is corrupt", err))
	}
	if err := snapshot.Progress.Validate(); err != nil {
		return e.loadFailedLocked(domain.WrapError(domain.ErrCodeInvalid, "stored snapshot is corrupt", err))
	}

	if err := e.replaceTasksLocked(snapshot.Tasks); err != nil {
		return err
	}
	e.progress = snapshot.Progress
	e.progress.Sync(e.levels)
	e.settings = snapshot.Settings
	if !e.settings.Theme.Valid() {
		e.settings.Theme = domain.ThemeLight
	}
	e.unloaded = false
	e.dirty = false
	e.logger.Info("snapshot loaded",
		zap.Int("tasks", len(snapshot.Tasks)),
		zap.Int("experience", e.progress.Experience))
	return nil
}

func (e *Engine) loadFailedLocked(err error) error {
	e.unloaded = true
	e.logger.Error("snapshot load failed, saves are disabled until reset", zap.Error(err))
	return err
}

// Export returns the full state as an export document.
func (e *Engine) Export() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Import merges a document shallowly: tasks are replaced wholesale, progress and settings
// fields overlay the current ones. Nothing is changed when validation fails.
func (e *Engine) Import(ctx context.Context, doc domain.ImportDocument) error {
	if doc.Tasks != nil {
		if err := domain.ValidateTasks(*doc.Tasks); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	progress := e.progress
	if doc.Progress != nil {
		progress = progress.Overlay(*doc.Progress)
		if err := progress.Validate(); err != nil {
			return err
		}
	}
	settings := e.settings
	if doc.Settings != nil {
		var err error
		if settings, err = settings.Apply(*doc.Settings); err != nil {
			return err
		}
	}

	if doc.Tasks != nil {
		if err := e.replaceTasksLocked(*doc.Tasks); err != nil {
			return err
		}
	}
	progress.Sync(e.levels)
	e.progress = progress
	e.settings = settings

	e.logger.Info("snapshot imported", zap.Int("tasks", e.tasks.Len()))
	e.persist(ctx)
	return nil
}

// Reset wipes tasks, progress and settings, and clears the stored snapshot.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.replaceTasksLocked(nil); err != nil {
		return err
	}
	e.progress = domain.NewProgress()
	e.progress.Sync(e.levels)
	e.settings = domain.DefaultSettings()

	if e.gateway != nil {
		if err := e.gateway.Clear(ctx); err != nil {
			e.dirty = true
			if !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
				err = domain.Unavailable("clear snapshot", err)
			}
			e.logger.Warn("snapshot clear failed", zap.Error(err))
			e.report(err)
		} else {
			e.dirty = false
			e.unloaded = false
		}
	}
	e.clearMirrorLocked(ctx)
	e.logger.Info("state reset")
	return nil
}

// SeedSamples fills an empty board with a few example tasks. It reports whether it did.
func (e *Engine) SeedSamples(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tasks.Len() > 0 {
		return false, nil
	}
	today := e.Today()
	samples := []domain.TaskFields{
		{Title: "Read 20 pages", Description: "Atomic Habits", Category: domain.CategoryStudy, Priority: domain.PriorityLow, DueDate: domain.DatePtr(today.AddDays(1))},
		{Title: "Workout 30m", Description: "Cardio session", Category: domain.CategoryHealth, Priority: domain.PriorityMedium, DueDate: domain.DatePtr(today)},
		{Title: "Finish project report", Description: "Draft slides", Category: domain.CategoryWork, Priority: domain.PriorityHigh, DueDate: domain.DatePtr(today.AddDays(2))},
	}
	for _, fields := range samples {
		id, err := e.freshIDLocked()
		if err != nil {
			return false, err
		}
		t := domain.Task{ID: id, CreatedAt: today}
		t.Apply(fields)
		if err := e.tasks.Insert(t); err != nil {
			return false, err
		}
	}
	e.persist(ctx)
	return true, nil
}

func (e *Engine) replaceTasksLocked(tasks []domain.Task) error {
	var existing []string
	for t := range e.tasks.All() {
		existing = append(existing, t.ID)
	}
	for _, id := range existing {
		if err := e.tasks.Remove(id); err != nil {
			return err
		}
		e.retired[id] = struct{}{}
	}
	for _, t := range tasks {
		if err := e.tasks.Insert(t); err != nil {
			return err
		}
	}
	return nil
}
