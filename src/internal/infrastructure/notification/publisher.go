package notification

import (
	"context"
	"errors"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// MultiPublisher 扇出
// ===========================

// MultiPublisher 將事件同時發送到多個 sink
//
// 各 sink 並行執行，單一 sink 失敗不影響其他 sink；所有錯誤合併返回。
type MultiPublisher struct {
	sinks []shared.EventPublisher
}

// NewMultiPublisher 建構函數
func NewMultiPublisher(sinks ...shared.EventPublisher) *MultiPublisher {
	return &MultiPublisher{sinks: sinks}
}

var _ shared.EventPublisher = (*MultiPublisher)(nil)

// Publish 發布單一事件
func (m *MultiPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

// PublishBatch 發布多個事件
func (m *MultiPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 || len(m.sinks) == 0 {
		return nil
	}

	p := pool.New().WithErrors()
	for _, sink := range m.sinks {
		sink := sink
		p.Go(func() error {
			return sink.PublishBatch(ctx, events)
		})
	}
	return p.Wait()
}

// ===========================
// LogPublisher
// ===========================

// LogPublisher 只記錄日誌（沒有其他 sink 時的預設值）
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher 建構函數
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

var _ shared.EventPublisher = (*LogPublisher)(nil)

// Publish 實現 shared.EventPublisher
func (p *LogPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	p.logger.Info("domain event",
		zap.String("event_id", event.EventID()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.String("user_id", event.UserID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// PublishBatch 實現 shared.EventPublisher
func (p *LogPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		_ = p.Publish(ctx, event)
	}
	return nil
}

// ===========================
// InboxPublisher 站內通知
// ===========================

// InboxPublisher 將需要通知使用者的事件寫入收件匣
type InboxPublisher struct {
	inbox Inbox
}

// NewInboxPublisher 建構函數
func NewInboxPublisher(inbox Inbox) *InboxPublisher {
	return &InboxPublisher{inbox: inbox}
}

var _ shared.EventPublisher = (*InboxPublisher)(nil)

// Publish 實現 shared.EventPublisher
func (p *InboxPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	n, ok := FromEvent(event)
	if !ok || n.UserID.IsEmpty() {
		return nil
	}
	return p.inbox.Save(ctx, n)
}

// PublishBatch 實現 shared.EventPublisher
func (p *InboxPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
