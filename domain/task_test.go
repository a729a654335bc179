package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.String())

	d, err = ParseDate("2026-03-10T23:30:00Z")
	require.NoError(t, err)
	assert.True(t, d.Equal(NewDate(2026, time.March, 10)))

	_, err = ParseDate("10/03/2026")
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.February, 28)
	assert.Equal(t, "2026-03-01", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, -1, d.Compare(d.AddDays(1)))
	assert.True(t, DateOf(time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)).Equal(d))
}

func TestTaskJSON(t *testing.T) {
	task := Task{
		ID:        "t1",
		Title:     "Read",
		Category:  CategoryStudy,
		Priority:  PriorityLow,
		DueDate:   DatePtr(NewDate(2026, time.March, 12)),
		CreatedAt: NewDate(2026, time.March, 10),
	}
	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"t1","title":"Read","category":"Study","priority":"Low",
		"dueDate":"2026-03-12","createdAt":"2026-03-10","completed":false
	}`, string(data))

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.DueDate.Equal(*task.DueDate))
	assert.Nil(t, decoded.CompletedAt)
}

func TestTaskFieldsNormalize(t *testing.T) {
	f, err := TaskFields{Title: "  Plan  ", Category: "work", Priority: "HIGH"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Plan", f.Title)
	assert.Equal(t, CategoryWork, f.Category)
	assert.Equal(t, PriorityHigh, f.Priority)

	f, err = TaskFields{Title: "x"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, CategoryPersonal, f.Category)
	assert.Equal(t, PriorityMedium, f.Priority)

	_, err = TaskFields{Title: "x", Category: "Garden"}.Normalize()
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "t1", Title: "x", Category: CategoryWork, Priority: PriorityLow, CreatedAt: NewDate(2026, 1, 1)}
	require.NoError(t, task.Validate())

	task.Completed = true
	assert.Error(t, task.Validate(), "completed without a completion date")

	task.MarkComplete(NewDate(2026, 1, 2))
	assert.NoError(t, task.Validate())

	task.MarkActive()
	assert.Nil(t, task.CompletedAt)
	assert.NoError(t, task.Validate())
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Zero(t, Priority("Urgent").Rank())
}
