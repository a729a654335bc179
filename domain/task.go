package domain

import "strings"

// Category groups tasks into a fixed set of areas.
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryHealth   Category = "Health"
	CategoryStudy    Category = "Study"
	CategoryShopping Category = "Shopping"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryHealth, CategoryStudy, CategoryShopping}

// ParseCategory matches a category case-insensitively.
func ParseCategory(value string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(value)) {
			return c, nil
		}
	}
	return "", Invalidf("unknown category %q", value)
}

// Priority is totally ordered: High > Medium > Low.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority matches a priority case-insensitively.
func ParsePriority(value string) (Priority, error) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if strings.EqualFold(string(p), strings.TrimSpace(value)) {
			return p, nil
		}
	}
	return "", Invalidf("unknown priority %q", value)
}

// Rank orders priorities; unknown values rank below Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task represents a single to-do item.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"dueDate,omitempty"`
	CreatedAt   Date     `json:"createdAt"`
	Completed   bool     `json:"completed"`
	CompletedAt *Date    `json:"completedAt,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// DueOn reports whether the task is due on the given day.
func (t *Task) DueOn(day Date) bool {
	return t != nil && SameDay(t.DueDate, day)
}

// MarkComplete sets the completion flag and stamps the completion date.
func (t *Task) MarkComplete(day Date) {
	t.Completed = true
	t.CompletedAt = DatePtr(day)
}

// MarkActive clears the completion flag and its date.
func (t *Task) MarkActive() {
	t.Completed = false
	t.CompletedAt = nil
}

// Apply overwrites the mutable fields. Identity and completion state are untouched.
func (t *Task) Apply(f TaskFields) {
	t.Title = strings.TrimSpace(f.Title)
	t.Description = strings.TrimSpace(f.Description)
	t.Category = f.Category
	t.Priority = f.Priority
	if f.DueDate != nil {
		t.DueDate = DatePtr(*f.DueDate)
	} else {
		t.DueDate = nil
	}
}

// Validate checks a fully materialised task, e.g. one read from an import document.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return Invalidf("task id must not be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if t.Priority.Rank() == 0 {
		return Invalidf("unknown priority %q", t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return Invalidf("task %s has no creation date", t.ID)
	}
	if t.Completed != (t.CompletedAt != nil) {
		return Invalidf("task %s: completedAt must be set exactly when completed", t.ID)
	}
	return nil
}

// TaskFields carries the user-editable part of a task.
type TaskFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"dueDate,omitempty"`
}

// Normalize trims text, fills defaults for empty enums and validates the result.
func (f TaskFields) Normalize() (TaskFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return f, ErrEmptyTitle
	}
	f.Description = strings.TrimSpace(f.Description)

	if f.Category == "" {
		f.Category = CategoryPersonal
	}
	category, err := ParseCategory(string(f.Category))
	if err != nil {
		return f, err
	}
	f.Category = category

	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	priority, err := ParsePriority(string(f.Priority))
	if err != nil {
		return f, err
	}
	f.Priority = priority
	return f, nil
}
