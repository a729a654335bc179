package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/domain"
)

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	snapshot := domain.Snapshot{
		Tasks:      []domain.Task{newTask("a", "Write report")},
		Progress:   domain.Progress{Experience: 12, TotalCompleted: 6},
		Settings:   domain.DefaultSettings(),
		ExportedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, snapshot))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Progress, loaded.Progress)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "Write report", loaded.Tasks[0].Title)

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestTimerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTimerRepository()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrTimerNotFound)

	state := domain.NewTimerState(600)
	state.Running = true
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, *got)

	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrTimerNotFound)
}
