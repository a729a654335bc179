package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/domain"
)

// testPool connects to TODOWA_TEST_DATABASE_URL, which must already carry the
// snapshot schema, or skips.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TODOWA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TODOWA_TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullTime(time.Time{}))
	assert.Nil(t, nullDate(nil))
	day := domain.NewDate(2026, time.March, 10)
	assert.Equal(t, day.Time(), nullDate(&day))
}

func TestSnapshotRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewSnapshotRepository(pool, "test-"+uuid.NewString())
	t.Cleanup(func() { repo.Clear(ctx) })

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	day := domain.NewDate(2026, time.March, 10)
	done := domain.Task{ID: "b", Title: "Ship", Category: domain.CategoryWork, Priority: domain.PriorityHigh, CreatedAt: day}
	done.MarkComplete(day)
	want := domain.Snapshot{
		Tasks: []domain.Task{
			{ID: "a", Title: "Plan", Category: domain.CategoryWork, Priority: domain.PriorityLow, CreatedAt: day, DueDate: domain.DatePtr(day)},
			done,
		},
		Progress:   domain.Progress{Experience: 104, Level: 2, TotalCompleted: 40},
		Settings:   domain.Settings{Theme: domain.ThemeDark, Notifications: true},
		ExportedAt: time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, want))
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "a", got.Tasks[0].ID)
	assert.True(t, got.Tasks[1].Completed)
	assert.Equal(t, want.Progress, got.Progress)
	assert.Equal(t, want.Settings, got.Settings)
	assert.True(t, want.ExportedAt.Equal(got.ExportedAt))
}
