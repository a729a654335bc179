package transport

import (
	"github.com/fastygo/todowa/domain"
)

// TaskRequest is the body of task create and update calls.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// Fields converts the request into validated-later task fields. Only the date is checked here.
func (r TaskRequest) Fields() (domain.TaskFields, error) {
	fields := domain.TaskFields{
		Title:       r.Title,
		Description: r.Description,
		Category:    domain.Category(r.Category),
		Priority:    domain.Priority(r.Priority),
	}
	if r.DueDate != "" {
		due, err := domain.ParseDate(r.DueDate)
		if err != nil {
			return fields, err
		}
		fields.DueDate = &due
	}
	return fields, nil
}

type PresetRequest struct {
	Minutes int `json:"minutes"`
}

type ExperienceRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}
