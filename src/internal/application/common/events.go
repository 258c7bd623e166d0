package common

import (
	"context"

	"go.uber.org/zap"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// EventSource 可取出待發布事件的聚合根
type EventSource interface {
	PullEvents() []shared.DomainEvent
}

// ===========================
// EventBuffer
// ===========================

// EventBuffer 在事務內收集事件，提交後一次派發
//
// 事務失敗時直接丟棄 buffer，已回滾的變更不會對外通知。
type EventBuffer struct {
	events []shared.DomainEvent
}

// Collect 取出聚合根的事件
func (b *EventBuffer) Collect(sources ...EventSource) {
	for _, source := range sources {
		if source == nil {
			continue
		}
		b.events = append(b.events, source.PullEvents()...)
	}
}

// Add 直接加入事件（不屬於聚合根的事件，例如交易作廢）
func (b *EventBuffer) Add(events ...shared.DomainEvent) {
	b.events = append(b.events, events...)
}

// Events 已收集的事件
func (b *EventBuffer) Events() []shared.DomainEvent {
	return b.events
}

// ===========================
// EventDispatcher
// ===========================

// EventDispatcher 事務提交後發布事件（best effort）
//
// 發布失敗只記錄日誌，帳本變更已經提交，不做回滾。
type EventDispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewEventDispatcher 建構函數；publisher 可為 nil（不發布）
func NewEventDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{publisher: publisher, logger: logger}
}

// Dispatch 發布事件
func (d *EventDispatcher) Dispatch(ctx context.Context, operation string, events []shared.DomainEvent) {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := d.publisher.PublishBatch(ctx, events); err != nil {
		d.logger.Warn("publish domain events failed",
			zap.String("operation", operation),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
