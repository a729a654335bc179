package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type snapshotRepository struct {
	db        *bolt.DB
	profileID string
}

// NewSnapshotRepository stores a profile as nested buckets: tasks keyed by their
// position, progress and settings as JSON values next to them.
func NewSnapshotRepository(db *bolt.DB, profileID string) repository.SnapshotRepository {
	return &snapshotRepository{db: db, profileID: profileID}
}

func (r *snapshotRepository) Load(_ context.Context) (*domain.Snapshot, error) {
	var snapshot *domain.Snapshot
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := profile(tx, r.profileID)
		if bucket == nil || bucket.Get(progressKey) == nil {
			return domain.ErrSnapshotNotFound
		}

		s := domain.Snapshot{Tasks: []domain.Task{}}
		if err := json.Unmarshal(bucket.Get(progressKey), &s.Progress); err != nil {
			return domain.WrapError(domain.ErrCodeInvalid, "decode stored progress", err)
		}
		s.Settings = domain.DefaultSettings()
		if raw := bucket.Get(settingsKey); raw != nil {
			if err := json.Unmarshal(raw, &s.Settings); err != nil {
				return domain.WrapError(domain.ErrCodeInvalid, "decode stored settings", err)
			}
		}
		if raw := bucket.Get(metaKey); raw != nil {
			if at, err := time.Parse(time.RFC3339Nano, string(raw)); err == nil {
				s.ExportedAt = at
			}
		}
		if tasks := bucket.Bucket(tasksBucket); tasks != nil {
			if err := tasks.ForEach(func(k, v []byte) error {
				var t domain.Task
				if err := json.Unmarshal(v, &t); err != nil {
					return domain.WrapError(domain.ErrCodeInvalid, fmt.Sprintf("decode stored task %s", k), err)
				}
				s.Tasks = append(s.Tasks, t)
				return nil
			}); err != nil {
				return err
			}
		}
		snapshot = &s
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) || domain.IsDomainError(err, domain.ErrCodeInvalid) {
			return nil, err
		}
		return nil, domain.Unavailable("load snapshot from bolt", err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	progress, err := json.Marshal(snapshot.Progress)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "encode progress", err)
	}
	settings, err := json.Marshal(snapshot.Settings)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "encode settings", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket, err := ensureProfile(tx, r.profileID)
		if err != nil {
			return err
		}
		if bucket.Bucket(tasksBucket) != nil {
			if err := bucket.DeleteBucket(tasksBucket); err != nil {
				return err
			}
		}
		tasks, err := bucket.CreateBucket(tasksBucket)
		if err != nil {
			return err
		}
		for i, t := range snapshot.Tasks {
			payload, err := json.Marshal(t)
			if err != nil {
				return err
			}
			// zero padded so cursor order is insertion order
			if err := tasks.Put([]byte(fmt.Sprintf("%08d", i)), payload); err != nil {
				return err
			}
		}
		if err := bucket.Put(progressKey, progress); err != nil {
			return err
		}
		if err := bucket.Put(settingsKey, settings); err != nil {
			return err
		}
		return bucket.Put(metaKey, []byte(snapshot.ExportedAt.UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return domain.Unavailable("save snapshot to bolt", err)
	}
	return nil
}

func (r *snapshotRepository) Clear(_ context.Context) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := profile(tx, r.profileID)
		if bucket == nil {
			return nil
		}
		if bucket.Bucket(tasksBucket) != nil {
			if err := bucket.DeleteBucket(tasksBucket); err != nil {
				return err
			}
		}
		for _, key := range [][]byte{progressKey, settingsKey, metaKey} {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Unavailable("clear bolt snapshot", err)
	}
	return nil
}
