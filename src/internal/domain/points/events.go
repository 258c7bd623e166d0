package points

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// 事件類型
const (
	EventAccountCreated = "points.account_created"
	EventPointsEarned   = "points.earned"
	EventPointsBonus    = "points.bonus"
	EventPointsDeducted = "points.deducted"
	EventPointsRefunded = "points.refunded"
	EventPointsAdjusted = "points.adjusted"
	EventTierUpgraded   = "points.tier_upgraded"
)

// ===========================
// AccountCreated 領域事件
// ===========================

// AccountCreatedEvent 積分帳戶建立事件
type AccountCreatedEvent struct {
	shared.BaseEvent
}

// NewAccountCreatedEvent 創建帳戶建立事件
func NewAccountCreatedEvent(a *Account, now time.Time) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventAccountCreated, a.accountID.String(), a.userID, now),
	}
}

// Payload 實現 DomainEvent 介面
func (e *AccountCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// ===========================
// PointsChanged 領域事件
// ===========================

// PointsChangedEvent 積分變更事件（每筆流水對應一個事件）
type PointsChangedEvent struct {
	shared.BaseEvent
	historyType  HistoryType
	points       int
	balanceAfter int
	description  string
	reference    Reference
}

// NewPointsChangedEvent 根據流水建立積分變更事件
func NewPointsChangedEvent(a *Account, entry *PointHistory) *PointsChangedEvent {
	return &PointsChangedEvent{
		BaseEvent:    shared.NewBaseEvent(eventTypeFor(entry.historyType), a.accountID.String(), a.userID, entry.createdAt),
		historyType:  entry.historyType,
		points:       entry.points,
		balanceAfter: entry.balanceAfter,
		description:  entry.description,
		reference:    entry.reference,
	}
}

func eventTypeFor(t HistoryType) string {
	switch t {
	case HistoryEarn:
		return EventPointsEarned
	case HistoryBonus:
		return EventPointsBonus
	case HistoryRedeem, HistoryExpire:
		return EventPointsDeducted
	case HistoryRefund:
		return EventPointsRefunded
	default:
		return EventPointsAdjusted
	}
}

// HistoryType 流水類型
func (e *PointsChangedEvent) HistoryType() HistoryType { return e.historyType }

// Points 有號差額
func (e *PointsChangedEvent) Points() int { return e.points }

// BalanceAfter 變更後餘額
func (e *PointsChangedEvent) BalanceAfter() int { return e.balanceAfter }

// Payload 實現 DomainEvent 介面
func (e *PointsChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"history_type":   string(e.historyType),
		"points":         e.points,
		"balance_after":  e.balanceAfter,
		"description":    e.description,
		"reference_type": string(e.reference.Type),
		"reference_id":   e.reference.ID,
	}
}

// ===========================
// TierUpgraded 領域事件
// ===========================

// TierUpgradedEvent 會員升級事件
type TierUpgradedEvent struct {
	shared.BaseEvent
	from tier.Tier
	to   tier.Tier
}

// NewTierUpgradedEvent 創建升級事件
func NewTierUpgradedEvent(a *Account, from tier.Tier, now time.Time) *TierUpgradedEvent {
	return &TierUpgradedEvent{
		BaseEvent: shared.NewBaseEvent(EventTierUpgraded, a.accountID.String(), a.userID, now),
		from:      from,
		to:        a.tier,
	}
}

// From 原等級
func (e *TierUpgradedEvent) From() tier.Tier { return e.from }

// To 新等級
func (e *TierUpgradedEvent) To() tier.Tier { return e.to }

// Payload 實現 DomainEvent 介面
func (e *TierUpgradedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"from": string(e.from),
		"to":   string(e.to),
	}
}
