package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/domain"
)

func sample(id, title string, category domain.Category, priority domain.Priority, due *domain.Date, created domain.Date) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     title,
		Category:  category,
		Priority:  priority,
		DueDate:   due,
		CreatedAt: created,
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func board() []domain.Task {
	d := func(day int) *domain.Date { return domain.DatePtr(domain.NewDate(2026, 3, day)) }
	tasks := []domain.Task{
		sample("a", "Read book", domain.CategoryStudy, domain.PriorityLow, d(12), domain.NewDate(2026, 3, 1)),
		sample("b", "Gym", domain.CategoryHealth, domain.PriorityHigh, nil, domain.NewDate(2026, 3, 3)),
		sample("c", "Quarterly report", domain.CategoryWork, domain.PriorityHigh, d(10), domain.NewDate(2026, 3, 2)),
		sample("d", "Groceries", domain.CategoryShopping, domain.PriorityMedium, d(10), domain.NewDate(2026, 3, 4)),
	}
	tasks[3].Description = "milk, eggs, BOOKmarks"
	tasks[1].MarkComplete(domain.NewDate(2026, 3, 9))
	return tasks
}

func TestFilterSortsByDueDateWithUndatedLast(t *testing.T) {
	got := Filter(board(), Query{})
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(got))
}

func TestFilterSortByPriorityIsStable(t *testing.T) {
	got := Filter(board(), Query{Sort: SortPriority})
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(got))
}

func TestFilterSortByCategory(t *testing.T) {
	got := Filter(board(), Query{Sort: SortCategory})
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))
}

func TestFilterSortByCreatedAtNewestFirst(t *testing.T) {
	got := Filter(board(), Query{Sort: SortCreatedAt})
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(got))
}

func TestFilterSearchMatchesTitleAndDescription(t *testing.T) {
	got := Filter(board(), Query{Search: " book "})
	assert.Equal(t, []string{"d", "a"}, ids(got))
}

func TestFilterByCategoryAndStatus(t *testing.T) {
	assert.Equal(t, []string{"c"}, ids(Filter(board(), Query{Category: domain.CategoryWork})))
	assert.Equal(t, []string{"b"}, ids(Filter(board(), Query{Status: StatusCompleted})))
	assert.Equal(t, []string{"c", "d", "a"}, ids(Filter(board(), Query{Status: StatusActive})))
	assert.Empty(t, Filter(board(), Query{Category: domain.CategoryPersonal}))
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	tasks := board()
	Filter(tasks, Query{Sort: SortPriority})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(tasks))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortDueDate, key)

	key, err = ParseSortKey("priority")
	require.NoError(t, err)
	assert.Equal(t, SortPriority, key)

	_, err = ParseSortKey("title")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, status)

	_, err = ParseStatus("archived")
	assert.Error(t, err)
}
