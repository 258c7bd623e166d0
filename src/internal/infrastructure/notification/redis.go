package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
)

// NewRedisClient 建立 Redis 連線並 Ping
func NewRedisClient(conf *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Username: conf.Redis.Username,
		Password: conf.Redis.Password,
		DB:       conf.Redis.Database,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Error("connect redis error", zap.String("addr", conf.Redis.Addr), zap.Error(err))
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("redis client success", zap.String("addr", conf.Redis.Addr))
	return client, nil
}

// Message Redis 頻道上的訊息格式
type Message struct {
	EventID     string                 `json:"event_id"`
	EventType   string                 `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	UserID      string                 `json:"user_id"`
	OccurredAt  string                 `json:"occurred_at"`
	Payload     map[string]interface{} `json:"payload"`
}

// RedisPublisher 將事件發布到 Redis 頻道（推播服務訂閱後負責投遞）
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisPublisher 建構函數
func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

var _ shared.EventPublisher = (*RedisPublisher)(nil)

// Publish 實現 shared.EventPublisher
func (p *RedisPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	body, err := json.Marshal(Message{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		UserID:      event.UserID().String(),
		OccurredAt:  event.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:     event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// PublishBatch 使用 pipeline 一次送出
func (p *RedisPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	if len(events) == 1 {
		return p.Publish(ctx, events[0])
	}

	pipe := p.client.Pipeline()
	for _, event := range events {
		body, err := json.Marshal(Message{
			EventID:     event.EventID(),
			EventType:   event.EventType(),
			AggregateID: event.AggregateID(),
			UserID:      event.UserID().String(),
			OccurredAt:  event.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Payload:     event.Payload(),
		})
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
		}
		pipe.Publish(ctx, p.channel, body)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %d events: %w", len(events), err)
	}
	return nil
}
