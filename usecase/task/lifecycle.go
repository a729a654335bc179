package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
)

// Create validates the fields and inserts a new active task.
func (e *Engine) Create(ctx context.Context, fields domain.TaskFields) (domain.Task, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.Task{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.freshIDLocked()
	if err != nil {
		e.logger.Error("task id allocation failed", zap.Error(err))
		return domain.Task{}, err
	}
	task := domain.Task{
		ID:        id,
		CreatedAt: e.Today(),
	}
	task.Apply(fields)

	if err := e.tasks.Insert(task); err != nil {
		return domain.Task{}, err
	}
	e.logger.Debug("task created", zap.String("task_id", task.ID))
	e.persist(ctx)
	return task, nil
}

// Get returns a task by id.
func (e *Engine) Get(id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks.Get(id)
}

// Complete marks a task done and pays out experience and bonuses.
// Completing an already completed task changes nothing.
func (e *Engine) Complete(ctx context.Context, id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.tasks.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	if current.Completed {
		return current, nil
	}

	today := e.Today()
	updated, err := e.tasks.Update(id, func(t *domain.Task) {
		t.MarkComplete(today)
	})
	if err != nil {
		return domain.Task{}, err
	}

	e.progress.TotalCompleted++
	e.award(ctx, e.rules.CompletionXP, "task completion")
	e.checkDailyGoal(ctx, today)
	e.checkPerfectDay(ctx, today)
	e.emit(ctx, domain.TaskCompleted(id, e.now()))

	e.logger.Debug("task completed",
		zap.String("task_id", id),
		zap.Int("experience", e.progress.Experience))
	e.persist(ctx)
	return updated, nil
}

// Uncomplete reopens a task. Experience already earned is kept.
func (e *Engine) Uncomplete(ctx context.Context, id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.tasks.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	if !current.Completed {
		return current, nil
	}

	updated, err := e.tasks.Update(id, func(t *domain.Task) {
		t.MarkActive()
	})
	if err != nil {
		return domain.Task{}, err
	}
	e.progress.RecordUncompletion()
	e.persist(ctx)
	return updated, nil
}

// Edit overwrites the mutable fields of a task.
func (e *Engine) Edit(ctx context.Context, id string, fields domain.TaskFields) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.tasks.Get(id); err != nil {
		return domain.Task{}, err
	}
	fields, err := fields.Normalize()
	if err != nil {
		return domain.Task{}, err
	}

	updated, err := e.tasks.Update(id, func(t *domain.Task) {
		t.Apply(fields)
	})
	if err != nil {
		return domain.Task{}, err
	}
	e.persist(ctx)
	return updated, nil
}

// Delete removes a task permanently. Create never hands its id out again.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tasks.Remove(id); err != nil {
		return err
	}
	e.retired[id] = struct{}{}
	e.emit(ctx, domain.TaskDeleted(id, e.now()))
	e.persist(ctx)
	return nil
}
