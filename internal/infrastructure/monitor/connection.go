package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/internal/infrastructure/buffer"
)

// Monitor polls the optional backing services so the mirror knows when postgres is reachable.
type Monitor struct {
	pg     *pgxpool.Pool
	redis  *redislib.Client
	outbox *buffer.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New builds a monitor; any of pg, redis and outbox may be nil when not configured.
func New(pg *pgxpool.Pool, redis *redislib.Client, outbox *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		outbox:   outbox,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.Refresh(context.Background())
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// MirrorOnline reports whether postgres answered the last probe.
func (m *Monitor) MirrorOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Postgres.Enabled && m.status.Postgres.Healthy
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes every component now and stores the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	outbox, size := m.checkOutbox()
	status := Status{
		Postgres:   m.checkPostgres(ctx),
		Redis:      m.checkRedis(ctx),
		Outbox:     outbox,
		OutboxSize: size,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Postgres.Healthy != status.Postgres.Healthy && status.Postgres.Enabled {
		m.logger.Info("postgres availability changed", zap.Bool("online", status.Postgres.Healthy))
	}
	return status
}

func (m *Monitor) checkPostgres(ctx context.Context) Component {
	if m.pg == nil {
		return Component{}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return probe(m.pg.Ping(ctx))
}

func (m *Monitor) checkRedis(ctx context.Context) Component {
	if m.redis == nil {
		return Component{}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return probe(m.redis.Ping(ctx).Err())
}

func (m *Monitor) checkOutbox() (Component, int) {
	if m.outbox == nil {
		return Component{}, 0
	}
	size, err := m.outbox.Size()
	if err != nil {
		m.logger.Warn("outbox size check failed", zap.Error(err))
	}
	return probe(err), size
}

func probe(err error) Component {
	c := Component{Enabled: true, Healthy: err == nil}
	if err != nil {
		c.Error = err.Error()
	}
	return c
}
