package reward

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// 事件類型
const (
	EventRewardRedeemed = "reward.redeemed"
	// 狀態變更事件為 "reward.redemption_" + 新狀態
	eventRedemptionStatusPrefix = "reward.redemption_"
)

// RedemptionCreatedEvent 兌換成功事件
type RedemptionCreatedEvent struct {
	shared.BaseEvent
	rewardName  string
	code        string
	pointsSpent int
	quantity    int
}

// NewRedemptionCreatedEvent 創建兌換成功事件
func NewRedemptionCreatedEvent(r *Redemption) *RedemptionCreatedEvent {
	return &RedemptionCreatedEvent{
		BaseEvent:   shared.NewBaseEvent(EventRewardRedeemed, r.redemptionID.String(), r.userID, r.createdAt),
		rewardName:  r.rewardName,
		code:        r.code,
		pointsSpent: r.pointsSpent,
		quantity:    r.quantity,
	}
}

// RewardName 獎勵名稱
func (e *RedemptionCreatedEvent) RewardName() string { return e.rewardName }

// Payload 實現 DomainEvent 介面
func (e *RedemptionCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"redemption_id":   e.AggregateID(),
		"reward_name":     e.rewardName,
		"redemption_code": e.code,
		"points_spent":    e.pointsSpent,
		"quantity":        e.quantity,
	}
}

// RedemptionStatusChangedEvent 兌換狀態變更事件
type RedemptionStatusChangedEvent struct {
	shared.BaseEvent
	status     Status
	rewardName string
}

// NewRedemptionStatusChangedEvent 創建狀態變更事件
func NewRedemptionStatusChangedEvent(r *Redemption) *RedemptionStatusChangedEvent {
	return &RedemptionStatusChangedEvent{
		BaseEvent:  shared.NewBaseEvent(eventRedemptionStatusPrefix+string(r.status), r.redemptionID.String(), r.userID, r.updatedAt),
		status:     r.status,
		rewardName: r.rewardName,
	}
}

// Status 新狀態
func (e *RedemptionStatusChangedEvent) Status() Status { return e.status }

// Payload 實現 DomainEvent 介面
func (e *RedemptionStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"redemption_id": e.AggregateID(),
		"status":        string(e.status),
		"reward_name":   e.rewardName,
	}
}
