package monitor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/internal/infrastructure/buffer"
)

func TestRefreshWithoutServices(t *testing.T) {
	m := New(nil, nil, nil, 0, nil)

	status := m.Refresh(context.Background())

	assert.True(t, status.Healthy())
	assert.False(t, status.Postgres.Enabled)
	assert.False(t, m.MirrorOnline())
}

func TestRefreshReportsOutboxSize(t *testing.T) {
	store, err := buffer.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Enqueue(buffer.Item{ID: "a"}))

	m := New(nil, nil, store, 0, nil)
	status := m.Refresh(context.Background())

	assert.True(t, status.Outbox.Enabled)
	assert.True(t, status.Outbox.Healthy)
	assert.Equal(t, 1, status.OutboxSize)
	assert.Equal(t, status, m.GetStatus())
}

func TestClosedOutboxIsUnhealthy(t *testing.T) {
	store, err := buffer.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	status := New(nil, nil, store, 0, nil).Refresh(context.Background())

	assert.False(t, status.Outbox.Healthy)
	assert.NotEmpty(t, status.Outbox.Error)
	assert.False(t, status.Healthy())
}
