package notify

import (
	"context"
	"encoding/json"
	"fmt"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/usecase"
)

// RedisSink publishes events as JSON on a per-profile pub/sub channel.
type RedisSink struct {
	client  *redislib.Client
	channel string
	logger  *zap.Logger
}

func NewRedisSink(client *redislib.Client, profileID string, logger *zap.Logger) *RedisSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{
		client:  client,
		channel: Channel(profileID),
		logger:  logger,
	}
}

// Channel is the pub/sub channel for a profile's events.
func Channel(profileID string) string {
	return fmt.Sprintf("todowa:%s:events", profileID)
}

func (s *RedisSink) Notify(ctx context.Context, event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode event", zap.String("kind", string(event.Kind)), zap.Error(err))
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.Warn("failed to publish event", zap.String("kind", string(event.Kind)), zap.Error(err))
	}
}

var _ usecase.NotificationSink = (*RedisSink)(nil)
