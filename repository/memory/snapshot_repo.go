package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type snapshotRepository struct {
	mu   sync.RWMutex
	data []byte
}

// NewSnapshotRepository keeps the last saved snapshot in process memory.
// The snapshot is stored encoded so callers never share slices with it.
func NewSnapshotRepository() repository.SnapshotRepository {
	return &snapshotRepository{}
}

func (r *snapshotRepository) Load(_ context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.data == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(r.data, &snapshot); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "decode snapshot", err)
	}
	return &snapshot, nil
}

func (r *snapshotRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "encode snapshot", err)
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

func (r *snapshotRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	r.data = nil
	r.mu.Unlock()
	return nil
}

type timerRepository struct {
	mu    sync.Mutex
	state *domain.TimerState
}

// NewTimerRepository keeps the timer state in process memory.
func NewTimerRepository() repository.TimerRepository {
	return &timerRepository{}
}

func (r *timerRepository) Get(_ context.Context) (*domain.TimerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil, domain.ErrTimerNotFound
	}
	state := *r.state
	return &state, nil
}

func (r *timerRepository) Save(_ context.Context, state domain.TimerState) error {
	r.mu.Lock()
	r.state = &state
	r.mu.Unlock()
	return nil
}

func (r *timerRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	r.state = nil
	r.mu.Unlock()
	return nil
}
