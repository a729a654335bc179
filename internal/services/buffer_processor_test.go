package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/internal/infrastructure/buffer"
	"github.com/fastygo/todowa/repository"
	"github.com/fastygo/todowa/repository/memory"
)

type health struct{ online atomic.Bool }

func (h *health) MirrorOnline() bool { return h.online.Load() }

type flakyMirror struct {
	repository.SnapshotRepository
	fail atomic.Bool
}

func (m *flakyMirror) Save(ctx context.Context, s domain.Snapshot) error {
	if m.fail.Load() {
		return errors.New("connection refused")
	}
	return m.SnapshotRepository.Save(ctx, s)
}

type processorFixture struct {
	store     *buffer.Store
	health    *health
	mirror    *flakyMirror
	processor *BufferProcessor
	bridge    *BufferBridge
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fx := &processorFixture{
		store:  store,
		health: &health{},
		mirror: &flakyMirror{SnapshotRepository: memory.NewSnapshotRepository()},
	}
	fx.health.online.Store(true)
	fx.processor = NewBufferProcessor(store, fx.health, fx.mirror, nil, ProcessorConfig{
		ProfileID:  "alice",
		Interval:   time.Hour,
		MaxRetries: 3,
	})
	fx.bridge = NewBufferBridge(fx.processor, "alice")
	return fx
}

func snapshotWithXP(xp int) domain.Snapshot {
	return domain.Snapshot{Progress: domain.Progress{Experience: xp}, Settings: domain.DefaultSettings()}
}

func TestMirrorWritesThroughWhenOnline(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(10)))

	got, err := fx.mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Progress.Experience)
	assert.Zero(t, fx.processor.Size())
}

func TestMirrorBuffersWhileOffline(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()
	fx.health.online.Store(false)

	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(1)))
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(2)))
	assert.Equal(t, 1, fx.processor.Size(), "only the latest snapshot is kept")

	require.NoError(t, fx.processor.Drain(ctx))
	assert.Equal(t, 1, fx.processor.Size(), "drain waits for the mirror")

	fx.health.online.Store(true)
	require.NoError(t, fx.processor.Drain(ctx))
	assert.Zero(t, fx.processor.Size())

	got, err := fx.mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Progress.Experience)
}

func TestMirrorFailureFallsBackToOutbox(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()
	fx.mirror.fail.Store(true)

	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(5)))
	assert.Equal(t, 1, fx.processor.Size())
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()
	fx.mirror.fail.Store(true)
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(5)))

	require.NoError(t, fx.processor.Drain(ctx))
	require.NoError(t, fx.processor.Drain(ctx))
	assert.Equal(t, 1, fx.processor.Size())

	require.NoError(t, fx.processor.Drain(ctx))
	assert.Zero(t, fx.processor.Size())
}

func TestDrainDropsForeignProfile(t *testing.T) {
	fx := newProcessorFixture(t)
	item, err := buffer.SnapshotItem("bob", snapshotWithXP(1))
	require.NoError(t, err)
	require.NoError(t, fx.store.Enqueue(item))

	require.NoError(t, fx.processor.Drain(context.Background()))

	assert.Zero(t, fx.processor.Size())
	_, err = fx.mirror.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestWriteThroughSupersedesQueuedSnapshot(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()

	fx.health.online.Store(false)
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(10)))
	require.Equal(t, 1, fx.processor.Size())

	fx.health.online.Store(true)
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(20)))
	assert.Zero(t, fx.processor.Size(), "the older queued state is purged")

	require.NoError(t, fx.processor.Drain(ctx))
	got, err := fx.mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Progress.Experience)
}

func TestClearMirrorRemovesMirroredSnapshot(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(10)))

	require.NoError(t, fx.bridge.ClearMirror(ctx))

	_, err := fx.mirror.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.Zero(t, fx.processor.Size())
}

func TestQueuedClearReplacesPendingSnapshot(t *testing.T) {
	fx := newProcessorFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(10)))

	fx.health.online.Store(false)
	require.NoError(t, fx.bridge.MirrorSnapshot(ctx, snapshotWithXP(30)))
	require.NoError(t, fx.bridge.ClearMirror(ctx))
	assert.Equal(t, 1, fx.processor.Size())

	fx.health.online.Store(true)
	require.NoError(t, fx.processor.Drain(ctx))
	assert.Zero(t, fx.processor.Size())
	_, err := fx.mirror.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
