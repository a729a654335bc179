package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type snapshotRepository struct {
	client *redislib.Client
	prefix string
}

// NewSnapshotRepository stores a profile as flat keys written in one MULTI/EXEC.
func NewSnapshotRepository(client *redislib.Client, profileID string) repository.SnapshotRepository {
	return &snapshotRepository{
		client: client,
		prefix: KeyPrefix(profileID),
	}
}

// KeyPrefix is the namespace of every key belonging to a profile.
func KeyPrefix(profileID string) string {
	return fmt.Sprintf("todowa:%s:", profileID)
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	values, err := r.client.MGet(ctx, r.key("tasks"), r.key("progress"), r.key("settings"), r.key("exported_at")).Result()
	if err != nil {
		return nil, domain.Unavailable("load snapshot from redis", err)
	}
	if values[1] == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	snapshot := domain.Snapshot{Tasks: []domain.Task{}, Settings: domain.DefaultSettings()}
	if err := decode(values[0], &snapshot.Tasks); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored tasks", err)
	}
	if err := decode(values[1], &snapshot.Progress); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored progress", err)
	}
	if err := decode(values[2], &snapshot.Settings); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "decode stored settings", err)
	}
	if raw, ok := values[3].(string); ok {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			snapshot.ExportedAt = at
		}
	}
	return &snapshot, nil
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	tasks := snapshot.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	tasksPayload, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	progressPayload, err := json.Marshal(snapshot.Progress)
	if err != nil {
		return err
	}
	settingsPayload, err := json.Marshal(snapshot.Settings)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, r.key("tasks"), tasksPayload, 0)
		pipe.Set(ctx, r.key("progress"), progressPayload, 0)
		pipe.Set(ctx, r.key("settings"), settingsPayload, 0)
		pipe.Set(ctx, r.key("exported_at"), snapshot.ExportedAt.UTC().Format(time.RFC3339Nano), 0)
		return nil
	})
	if err != nil {
		return domain.Unavailable("save snapshot to redis", err)
	}
	return nil
}

func (r *snapshotRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key("tasks"), r.key("progress"), r.key("settings"), r.key("exported_at")).Err(); err != nil {
		return domain.Unavailable("clear redis snapshot", err)
	}
	return nil
}

func (r *snapshotRepository) key(name string) string {
	return r.prefix + name
}

func decode(value any, target any) error {
	if value == nil {
		return nil
	}
	raw, ok := value.(string)
	if !ok {
		return errors.New("unexpected value type")
	}
	return json.Unmarshal([]byte(raw), target)
}
