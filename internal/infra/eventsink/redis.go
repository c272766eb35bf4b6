package eventsink

import (
	"context"
	"fmt"
	"time"

	"tableorder/internal/infra/eventbus"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// streamの長さの目安（近似でトリム）
const redisStreamMaxLen = 10000

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

type RedisSink struct {
	client streamAdder
	stream string
}

func NewRedisSink(addr, password string, db int, stream string, log *zap.Logger) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr), zap.String("stream", stream))

	return &RedisSink{client: rdb, stream: stream}, nil
}

func (s *RedisSink) Write(ctx context.Context, ev eventbus.Event) error {
	body, err := encode(ev)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: redisStreamMaxLen,
		Approx: true,
		Values: map[string]any{
			"event_type": ev.Type,
			"store_id":   storeKey(ev),
			"data":       string(body),
		},
	}).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
