package card

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// 事件類型
const (
	EventCardIssued        = "card.issued"
	EventCardActivated     = "card.activated"
	EventCardDeactivated   = "card.deactivated"
	EventTransactionVoided = "card.transaction_voided"
)

// CardIssuedEvent 發卡事件
type CardIssuedEvent struct {
	shared.BaseEvent
	maskedNumber string
}

// NewCardIssuedEvent 創建發卡事件
func NewCardIssuedEvent(c *Card, now time.Time) *CardIssuedEvent {
	return &CardIssuedEvent{
		BaseEvent:    shared.NewBaseEvent(EventCardIssued, c.cardID.String(), c.ownerID, now),
		maskedNumber: c.MaskedNumber(),
	}
}

// Payload 實現 DomainEvent 介面
func (e *CardIssuedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"masked_number": e.maskedNumber}
}

// CardTransactionEvent 卡片餘額變更事件（事件類型為 "card." + 交易類型）
type CardTransactionEvent struct {
	shared.BaseEvent
	transactionID TransactionID
	txType        TransactionType
	amount        shared.Money
	balanceAfter  shared.Money
	reference     string
	maskedNumber  string
}

// NewCardTransactionEvent 根據交易建立事件
func NewCardTransactionEvent(c *Card, tx *Transaction) *CardTransactionEvent {
	return &CardTransactionEvent{
		BaseEvent:     shared.NewBaseEvent("card."+string(tx.txType), c.cardID.String(), c.ownerID, tx.createdAt),
		transactionID: tx.transactionID,
		txType:        tx.txType,
		amount:        tx.amount,
		balanceAfter:  tx.balanceAfter,
		reference:     tx.reference,
		maskedNumber:  c.MaskedNumber(),
	}
}

// TransactionType 交易類型
func (e *CardTransactionEvent) TransactionType() TransactionType { return e.txType }

// Amount 交易金額
func (e *CardTransactionEvent) Amount() shared.Money { return e.amount }

// MaskedNumber 遮罩卡號
func (e *CardTransactionEvent) MaskedNumber() string { return e.maskedNumber }

// Payload 實現 DomainEvent 介面
func (e *CardTransactionEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"transaction_id": e.transactionID.String(),
		"type":           string(e.txType),
		"amount":         e.amount.String(),
		"balance_after":  e.balanceAfter.String(),
		"reference":      e.reference,
	}
}

// CardStatusChangedEvent 啟用/停用事件
type CardStatusChangedEvent struct {
	shared.BaseEvent
	isActive bool
}

// NewCardStatusChangedEvent 創建狀態變更事件
func NewCardStatusChangedEvent(c *Card, now time.Time) *CardStatusChangedEvent {
	eventType := EventCardDeactivated
	if c.isActive {
		eventType = EventCardActivated
	}
	return &CardStatusChangedEvent{
		BaseEvent: shared.NewBaseEvent(eventType, c.cardID.String(), c.ownerID, now),
		isActive:  c.isActive,
	}
}

// Payload 實現 DomainEvent 介面
func (e *CardStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"is_active": e.isActive}
}

// TransactionVoidedEvent 交易作廢事件
type TransactionVoidedEvent struct {
	shared.BaseEvent
	reason string
}

// NewTransactionVoidedEvent 創建作廢事件
func NewTransactionVoidedEvent(tx *Transaction) *TransactionVoidedEvent {
	occurredAt := tx.updatedAt
	if tx.voidedAt != nil {
		occurredAt = *tx.voidedAt
	}
	return &TransactionVoidedEvent{
		BaseEvent: shared.NewBaseEvent(EventTransactionVoided, tx.transactionID.String(), tx.userID, occurredAt),
		reason:    tx.voidReason,
	}
}

// Payload 實現 DomainEvent 介面
func (e *TransactionVoidedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"reason": e.reason}
}
