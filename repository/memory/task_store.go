package memory

import (
	"iter"
	"slices"
	"sync"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type taskStore struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]*domain.Task
}

// NewTaskStore returns an empty in-memory TaskStore.
func NewTaskStore() repository.TaskStore {
	return &taskStore{tasks: make(map[string]*domain.Task)}
}

func (s *taskStore) Insert(task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return domain.ErrDuplicateTaskID
	}
	t := cloneTask(task)
	s.tasks[task.ID] = &t
	s.order = append(s.order, task.ID)
	return nil
}

func (s *taskStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	if idx := slices.Index(s.order, id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	return nil
}

func (s *taskStore) Get(id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return cloneTask(*t), nil
}

func (s *taskStore) All() iter.Seq[domain.Task] {
	s.mu.RLock()
	snapshot := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, cloneTask(*s.tasks[id]))
	}
	s.mu.RUnlock()

	return func(yield func(domain.Task) bool) {
		for _, t := range snapshot {
			if !yield(cloneTask(t)) {
				return
			}
		}
	}
}

func (s *taskStore) Update(id string, mutate func(*domain.Task)) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if mutate != nil {
		mutate(t)
		// identity is not a mutable field
		t.ID = id
	}
	return cloneTask(*t), nil
}

func (s *taskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func cloneTask(t domain.Task) domain.Task {
	if t.DueDate != nil {
		t.DueDate = domain.DatePtr(*t.DueDate)
	}
	if t.CompletedAt != nil {
		t.CompletedAt = domain.DatePtr(*t.CompletedAt)
	}
	return t
}
