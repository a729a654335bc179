package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/domain"
)

// testClient connects to TODOWA_TEST_REDIS_URL or skips.
func testClient(t *testing.T) *redislib.Client {
	t.Helper()
	url := os.Getenv("TODOWA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TODOWA_TEST_REDIS_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	require.NoError(t, err)
	client := redislib.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "todowa:alice:", KeyPrefix("alice"))
}

func TestSnapshotRepository(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	profile := "test-" + uuid.NewString()
	repo := NewSnapshotRepository(client, profile)
	t.Cleanup(func() { repo.Clear(ctx) })

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	day := domain.NewDate(2026, time.March, 10)
	want := domain.Snapshot{
		Tasks: []domain.Task{{
			ID: "a", Title: "Stretch", Category: domain.CategoryHealth,
			Priority: domain.PriorityLow, CreatedAt: day,
		}},
		Progress:   domain.Progress{Experience: 20, TotalCompleted: 10},
		Settings:   domain.Settings{Theme: domain.ThemeSakura},
		ExportedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Stretch", got.Tasks[0].Title)
	assert.Equal(t, want.Progress, got.Progress)
	assert.Equal(t, want.Settings, got.Settings)
	assert.True(t, want.ExportedAt.Equal(got.ExportedAt))

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestTimerRepositoryExpiry(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	profile := "test-" + uuid.NewString()
	repo := NewTimerRepository(client, profile)
	t.Cleanup(func() { repo.Delete(ctx) })

	state := domain.NewTimerState(60)
	require.NoError(t, repo.Save(ctx, state))

	ttl, err := client.TTL(ctx, KeyPrefix(profile)+"timer").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Remaining)
}
