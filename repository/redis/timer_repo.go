package redis

import (
	"context"
	"encoding/json"
	"errors"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/repository"
)

type timerRepository struct {
	client *redislib.Client
	key    string
}

// NewTimerRepository stores the countdown with a TTL of its remaining time plus an hour,
// so an abandoned timer eventually disappears.
func NewTimerRepository(client *redislib.Client, profileID string) repository.TimerRepository {
	return &timerRepository{
		client: client,
		key:    KeyPrefix(profileID) + "timer",
	}
}

func (r *timerRepository) Get(ctx context.Context) (*domain.TimerState, error) {
	result, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrTimerNotFound
		}
		return nil, domain.Unavailable("load timer from redis", err)
	}

	var state domain.TimerState
	if err := json.Unmarshal([]byte(result), &state); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "decode timer state", err)
	}
	return &state, nil
}

func (r *timerRepository) Save(ctx context.Context, state domain.TimerState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, state.Expiry()).Err(); err != nil {
		return domain.Unavailable("save timer to redis", err)
	}
	return nil
}

func (r *timerRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return domain.Unavailable("delete timer from redis", err)
	}
	return nil
}
