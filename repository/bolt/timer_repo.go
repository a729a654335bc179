package bolt

import (
	"context"
	"encoding/json"
	"errors"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type timerRepository struct {
	db        *bolt.DB
	profileID string
}

// NewTimerRepository keeps the timer next to the profile snapshot. Unlike the
// redis variant the state does not expire.
func NewTimerRepository(db *bolt.DB, profileID string) repository.TimerRepository {
	return &timerRepository{db: db, profileID: profileID}
}

func (r *timerRepository) Get(_ context.Context) (*domain.TimerState, error) {
	var state domain.TimerState
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := profile(tx, r.profileID)
		if bucket == nil {
			return domain.ErrTimerNotFound
		}
		raw := bucket.Get(timerKey)
		if raw == nil {
			return domain.ErrTimerNotFound
		}
		return json.Unmarshal(raw, &state)
	})
	if err != nil {
		if errors.Is(err, domain.ErrTimerNotFound) {
			return nil, err
		}
		return nil, domain.Unavailable("load timer from bolt", err)
	}
	return &state, nil
}

func (r *timerRepository) Save(_ context.Context, state domain.TimerState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := ensureProfile(tx, r.profileID)
		if err != nil {
			return err
		}
		return bucket.Put(timerKey, payload)
	})
	if err != nil {
		return domain.Unavailable("save timer to bolt", err)
	}
	return nil
}

func (r *timerRepository) Delete(_ context.Context) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := profile(tx, r.profileID)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(timerKey)
	})
	if err != nil {
		return domain.Unavailable("delete timer from bolt", err)
	}
	return nil
}
