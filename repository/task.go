package repository

import (
	"iter"

	"github.com/fastygo/todowa/domain"
)

// TaskStore is the in-memory working set of tasks, kept in insertion order.
type TaskStore interface {
	// Insert appends the task; domain.ErrDuplicateTaskID if the id is taken.
	Insert(task domain.Task) error
	// Remove deletes permanently; domain.ErrTaskNotFound if absent.
	Remove(id string) error
	Get(id string) (domain.Task, error)
	// All returns a restartable sequence over a copy of the contents taken at call time.
	All() iter.Seq[domain.Task]
	// Update applies mutate in place and returns the updated task.
	Update(id string, mutate func(*domain.Task)) (domain.Task, error)
	Len() int
}
