package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/pkg/clock"
	"github.com/fastygo/todowa/repository"
	"github.com/fastygo/todowa/usecase"
)

const (
	errorBacklog  = 16
	maxIDAttempts = 8
)

// Engine owns the task lifecycle and the progress it earns.
// Every operation runs to completion under one lock, so callers may be concurrent.
type Engine struct {
	mu sync.Mutex

	tasks   repository.TaskStore
	gateway repository.SnapshotRepository
	mirror  usecase.SnapshotMirror
	sink    usecase.NotificationSink
	levels  domain.LevelTable
	rules   domain.Rules
	clock   clock.Clock
	newID   func() string
	logger  *zap.Logger

	progress domain.Progress
	settings domain.Settings
	retired  map[string]struct{}
	dirty    bool
	unloaded bool
	errs     chan error
}

// Option customises an Engine.
type Option func(*Engine)

func WithLevels(levels domain.LevelTable) Option {
	return func(e *Engine) {
		if levels.Len() > 0 {
			e.levels = levels
		}
	}
}

func WithRules(rules domain.Rules) Option {
	return func(e *Engine) { e.rules = rules }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithMirror(m usecase.SnapshotMirror) Option {
	return func(e *Engine) { e.mirror = m }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New builds an engine over an empty or pre-filled store. gateway and sink may be nil.
func New(tasks repository.TaskStore, gateway repository.SnapshotRepository, sink usecase.NotificationSink, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = usecase.NopSink{}
	}
	e := &Engine{
		tasks:    tasks,
		gateway:  gateway,
		sink:     sink,
		levels:   domain.DefaultLevelTable(),
		rules:    domain.DefaultRules(),
		clock:    clock.Real{},
		newID:    uuid.NewString,
		logger:   logger,
		progress: domain.NewProgress(),
		settings: domain.DefaultSettings(),
		retired:  make(map[string]struct{}),
		errs:     make(chan error, errorBacklog),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.rules.Validate(); err != nil {
		e.logger.Warn("invalid reward rules, using defaults", zap.Error(err))
		e.rules = domain.DefaultRules()
	}
	e.progress.Sync(e.levels)
	return e
}

// Errors delivers persistence failures. Failures are dropped when nobody drains it.
func (e *Engine) Errors() <-chan error {
	return e.errs
}

// Dirty reports whether in-memory changes have not reached the store.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Levels exposes the level table the engine was built with.
func (e *Engine) Levels() domain.LevelTable {
	return e.levels
}

// Today is the current calendar day according to the engine clock.
func (e *Engine) Today() domain.Date {
	return domain.DateOf(e.clock.Now())
}

func (e *Engine) now() time.Time {
	return e.clock.Now()
}

func (e *Engine) emit(ctx context.Context, event domain.Event) {
	e.sink.Notify(ctx, event)
}

func (e *Engine) report(err error) {
	select {
	case e.errs <- err:
	default:
		e.logger.Debug("error channel full, dropping", zap.Error(err))
	}
}

// persist saves the full state after a successful transition. Failures never roll back.
func (e *Engine) persist(ctx context.Context) {
	if e.gateway == nil {
		return
	}
	if e.unloaded {
		e.dirty = true
		e.logger.Warn("snapshot not saved, stored state was never loaded")
		e.report(domain.ErrStateNotLoaded)
		return
	}
	snapshot := e.snapshotLocked()
	if err := e.gateway.Save(ctx, snapshot); err != nil {
		e.dirty = true
		if !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
			err = domain.Unavailable("save snapshot", err)
		}
		e.logger.Warn("snapshot save failed, retrying on next change", zap.Error(err))
		e.report(err)
		return
	}
	if e.dirty {
		e.logger.Info("snapshot save recovered")
		e.dirty = false
	}
	e.mirrorLocked(ctx, snapshot)
}

// Flush retries a failed save. It is a no-op when the last save succeeded.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dirty || e.gateway == nil {
		return nil
	}
	if e.unloaded {
		return domain.ErrStateNotLoaded
	}
	if err := e.gateway.Save(ctx, e.snapshotLocked()); err != nil {
		return domain.Unavailable("flush snapshot", err)
	}
	e.dirty = false
	e.logger.Info("snapshot save recovered")
	return nil
}

func (e *Engine) mirrorLocked(ctx context.Context, snapshot domain.Snapshot) {
	if e.mirror == nil {
		return
	}
	if err := e.mirror.MirrorSnapshot(ctx, snapshot); err != nil {
		e.logger.Warn("snapshot mirror failed", zap.Error(err))
		e.report(err)
	}
}

func (e *Engine) clearMirrorLocked(ctx context.Context) {
	if e.mirror == nil {
		return
	}
	if err := e.mirror.ClearMirror(ctx); err != nil {
		e.logger.Warn("snapshot mirror clear failed", zap.Error(err))
		e.report(err)
	}
}

// freshIDLocked draws ids until one is neither live nor previously removed.
func (e *Engine) freshIDLocked() (string, error) {
	for range maxIDAttempts {
		id := e.newID()
		if _, gone := e.retired[id]; gone {
			continue
		}
		if _, err := e.tasks.Get(id); err == nil {
			continue
		}
		return id, nil
	}
	return "", domain.WrapError(domain.ErrCodeConflict, "could not allocate an unused task id", domain.ErrDuplicateTaskID)
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	tasks := make([]domain.Task, 0, e.tasks.Len())
	for t := range e.tasks.All() {
		tasks = append(tasks, t)
	}
	return domain.Snapshot{
		Tasks:      tasks,
		Progress:   e.progress,
		Settings:   e.settings,
		ExportedAt: e.now().UTC(),
	}
}
