package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/internal/infrastructure/buffer"
	"github.com/fastygo/todowa/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	MirrorOnline() bool
}

// ProcessorConfig controls how frequently the outbox is drained.
type ProcessorConfig struct {
	ProfileID  string
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor pushes snapshots to the postgres mirror, parking them in the bbolt
// outbox while the mirror is unreachable.
// Drains and write-throughs are serialised so a drain never replays a state older than
// one just written.
type BufferProcessor struct {
	mu sync.Mutex

	store   *buffer.Store
	monitor ConnectionHealth
	mirror  repository.SnapshotRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	mirror repository.SnapshotRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		mirror:  mirror,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	_, _ = bp.cron.AddFunc(fmt.Sprintf("@every %s", cfg.Interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("outbox drain failed", zap.Error(err))
		}
	})
	_, _ = bp.cron.AddFunc("@hourly", func() {
		if err := bp.store.Cleanup(time.Now().Add(-cfg.Retention)); err != nil {
			bp.logger.Warn("outbox cleanup failed", zap.Error(err))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("outbox processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("outbox processor stopped")
}

// Drain processes buffered items synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.MirrorOnline() {
		bp.logger.Debug("skipping outbox drain (mirror offline)")
		return nil
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := bp.processItem(ctx, item); err != nil {
			bp.logger.Error("failed to mirror outbox item",
				zap.String("item_id", item.ID),
				zap.String("profile_id", item.ProfileID),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			if item.Retries+1 >= bp.cfg.MaxRetries || !retryable(err) {
				bp.logger.Warn("dropping outbox item", zap.String("item_id", item.ID))
				_ = bp.store.Remove(item)
				continue
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue outbox item", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge mirrored outbox item", zap.Error(err))
		}
	}
	return nil
}

// BufferOperation attempts to mirror immediately and falls back to the outbox.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("outbox processor not configured")
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.monitor == nil || bp.monitor.MirrorOnline() {
		err := bp.processItem(ctx, item)
		if err == nil {
			if err := bp.store.DropTarget(item); err != nil {
				bp.logger.Warn("failed to purge superseded outbox items", zap.Error(err))
			}
			return nil
		}
		if !retryable(err) {
			return err
		}
		bp.logger.Warn("immediate mirror failed, buffering", zap.Error(err))
	}
	return bp.store.Replace(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if item.Entity != buffer.EntitySnapshot {
		return domain.Invalidf("unsupported entity %s", item.Entity)
	}
	if bp.cfg.ProfileID != "" && item.ProfileID != bp.cfg.ProfileID {
		return domain.Invalidf("outbox item for profile %s, mirror serves %s", item.ProfileID, bp.cfg.ProfileID)
	}

	switch item.Operation {
	case buffer.OperationReplace:
		snapshot, err := item.Snapshot()
		if err != nil {
			return err
		}
		return bp.mirror.Save(ctx, snapshot)
	case buffer.OperationClear:
		return bp.mirror.Clear(ctx)
	default:
		return domain.Invalidf("unsupported operation %s", item.Operation)
	}
}

// retryable is false for items that can never succeed, such as malformed payloads.
func retryable(err error) bool {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr.Code != domain.ErrCodeInvalid
	}
	return true
}
