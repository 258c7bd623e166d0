package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent 領域事件基礎介面
type DomainEvent interface {
	EventID() string                 // 事件唯一標識
	EventType() string               // 事件類型（如 "points.earned"）
	OccurredAt() time.Time           // 發生時間
	AggregateID() string             // 聚合根 ID
	UserID() UserID                  // 受影響的用戶（通知收件人）
	Payload() map[string]interface{} // 可序列化的事件內容
}

// EventPublisher 事件發布器介面
//
// 設計原則：介面定義在 Domain Layer（使用者），由 Infrastructure 實作
// 發布在事務提交之後進行，失敗只記錄日誌，不回滾帳本變更
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishBatch(ctx context.Context, events []DomainEvent) error
}

// ===========================
// 事件基礎實作
// ===========================

// BaseEvent 所有領域事件共用的欄位
type BaseEvent struct {
	eventID     string
	eventType   string
	aggregateID string
	userID      UserID
	occurredAt  time.Time
}

// NewBaseEvent 建立事件基礎欄位
func NewBaseEvent(eventType, aggregateID string, userID UserID, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New().String(),
		eventType:   eventType,
		aggregateID: aggregateID,
		userID:      userID,
		occurredAt:  occurredAt,
	}
}

// EventID 實現 DomainEvent 介面
func (e BaseEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e BaseEvent) EventType() string { return e.eventType }

// OccurredAt 實現 DomainEvent 介面
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e BaseEvent) AggregateID() string { return e.aggregateID }

// UserID 實現 DomainEvent 介面
func (e BaseEvent) UserID() UserID { return e.userID }

// ===========================
// EventRecorder 聚合事件暫存
// ===========================

// EventRecorder 嵌入聚合根，暫存待發布事件
//
// Pull 模式：聚合根不依賴 EventPublisher，
// Use Case 在事務提交後調用 PullEvents() 取得事件並發布
type EventRecorder struct {
	events []DomainEvent
}

// Record 添加事件
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 取出所有待發布事件並清空
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	if events == nil {
		return []DomainEvent{}
	}
	return events
}
