package task

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fastygo/todowa/domain"
)

// SortKey selects the ordering of a task listing.
type SortKey string

const (
	SortDueDate   SortKey = "dueDate"
	SortPriority  SortKey = "priority"
	SortCategory  SortKey = "category"
	SortCreatedAt SortKey = "createdAt"
)

func ParseSortKey(value string) (SortKey, error) {
	switch SortKey(strings.TrimSpace(value)) {
	case "", SortDueDate:
		return SortDueDate, nil
	case SortPriority:
		return SortPriority, nil
	case SortCategory:
		return SortCategory, nil
	case SortCreatedAt:
		return SortCreatedAt, nil
	}
	return "", domain.Invalidf("unknown sort key %q", value)
}

// StatusFilter narrows a listing to active or completed tasks.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

func ParseStatus(value string) (StatusFilter, error) {
	switch StatusFilter(strings.TrimSpace(value)) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", domain.Invalidf("unknown status %q", value)
}

// Query describes a listing. The zero value lists everything by due date.
type Query struct {
	Search   string
	Category domain.Category
	Status   StatusFilter
	Sort     SortKey
}

// Filter applies q to tasks and returns a new slice; the input is not modified.
func Filter(tasks []domain.Task, q Query) []domain.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		switch q.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func comparator(key SortKey) func(a, b domain.Task) int {
	switch key {
	case SortPriority:
		return func(a, b domain.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortCategory:
		return func(a, b domain.Task) int {
			return cmp.Compare(a.Category, b.Category)
		}
	case SortCreatedAt:
		return func(a, b domain.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	default:
		return compareDueDate
	}
}

// compareDueDate sorts ascending with undated tasks last.
func compareDueDate(a, b domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}

// List returns the tasks matching q.
func (e *Engine) List(q Query) []domain.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Filter(e.allLocked(), q)
}

// DueToday returns tasks due today in store order.
func (e *Engine) DueToday() []domain.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	today := e.Today()
	var out []domain.Task
	for t := range e.tasks.All() {
		if t.DueOn(today) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) allLocked() []domain.Task {
	return slices.Collect(e.tasks.All())
}
