package metrics

import (
	"context"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// EventSink 以領域事件累計帳本指標（積分變動量、卡片金額）
type EventSink struct{}

// NewEventSink 建構函數
func NewEventSink() *EventSink {
	return &EventSink{}
}

var _ shared.EventPublisher = (*EventSink)(nil)

// Publish 實現 shared.EventPublisher
func (s *EventSink) Publish(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *points.PointsChangedEvent:
		AddPoints(string(e.HistoryType()), e.Points())
	case *card.CardTransactionEvent:
		AddCardAmount(string(e.TransactionType()), e.Amount())
	}
	return nil
}

// PublishBatch 實現 shared.EventPublisher
func (s *EventSink) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		_ = s.Publish(ctx, event)
	}
	return nil
}
