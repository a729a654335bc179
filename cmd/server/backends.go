package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/internal/config"
	"github.com/fastygo/todowa/internal/infrastructure/buffer"
	pgInfra "github.com/fastygo/todowa/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todowa/internal/infrastructure/redis"
	"github.com/fastygo/todowa/internal/services/lifecycle"
	"github.com/fastygo/todowa/repository"
	boltRepo "github.com/fastygo/todowa/repository/bolt"
	"github.com/fastygo/todowa/repository/memory"
	pgRepo "github.com/fastygo/todowa/repository/postgres"
	redisRepo "github.com/fastygo/todowa/repository/redis"
	taskUC "github.com/fastygo/todowa/usecase/task"
)

const maxBodySize = 4 << 20

// backends holds every storage handle the server opened. Optional ones stay nil.
type backends struct {
	pool   *pgxpool.Pool
	redis  *goRedis.Client
	outbox *buffer.Store

	snapshots repository.SnapshotRepository
	timers    repository.TimerRepository
	mirror    repository.SnapshotRepository
}

func openBackends(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (*backends, error) {
	b := &backends{}

	if err := pgInfra.RunMigrations(cfg, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	if cfg.UsesPostgres() {
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, logger)
			return nil
		})
	}

	if cfg.Redis.Enabled {
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		b.redis = client
		manager.RegisterCloser("redis", client)
	}

	switch cfg.Storage.Driver {
	case config.DriverBolt:
		db, err := boltRepo.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("bolt", db)
		b.snapshots = boltRepo.NewSnapshotRepository(db, cfg.ProfileID)
		b.timers = boltRepo.NewTimerRepository(db, cfg.ProfileID)
	case config.DriverRedis:
		b.snapshots = redisRepo.NewSnapshotRepository(b.redis, cfg.ProfileID)
		b.timers = redisRepo.NewTimerRepository(b.redis, cfg.ProfileID)
	case config.DriverPostgres:
		b.snapshots = pgRepo.NewSnapshotRepository(b.pool, cfg.ProfileID)
		b.timers = memory.NewTimerRepository()
	default:
		logger.Warn("memory storage selected, state is lost on exit")
		b.snapshots = memory.NewSnapshotRepository()
		b.timers = memory.NewTimerRepository()
	}
	if b.redis != nil && cfg.Storage.Driver == config.DriverPostgres {
		b.timers = redisRepo.NewTimerRepository(b.redis, cfg.ProfileID)
	}

	if cfg.Sync.Enabled {
		if cfg.Storage.Driver == config.DriverPostgres {
			logger.Warn("SYNC_ENABLED ignored, postgres is already the primary store")
			return b, nil
		}
		outbox, err := buffer.Open(cfg.Sync.OutboxPath, "outbox")
		if err != nil {
			return nil, fmt.Errorf("open outbox: %w", err)
		}
		b.outbox = outbox
		b.mirror = pgRepo.NewSnapshotRepository(b.pool, cfg.ProfileID)
		manager.RegisterCloser("outbox", outbox)
	}
	return b, nil
}

// drainErrors logs persistence failures reported by the engine until ctx ends.
func drainErrors(ctx context.Context, engine *taskUC.Engine, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-engine.Errors():
			logger.Error("state not persisted", zap.Error(err), zap.Bool("unsaved", engine.Dirty()))
		}
	}
}

func hours(n int) time.Duration {
	return time.Duration(n) * time.Hour
}
