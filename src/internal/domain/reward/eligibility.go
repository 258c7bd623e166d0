package reward

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// Reason 無法兌換的原因
type Reason string

// 原因（檢查順序即為此順序）
const (
	ReasonInvalidQuantity    Reason = "invalid_quantity"
	ReasonUnavailable        Reason = "reward_unavailable"
	ReasonInsufficientPoints Reason = "insufficient_points"
	ReasonTierNotMet         Reason = "tier_not_met"
)

// Eligibility 兌換資格檢查結果
type Eligibility struct {
	CanRedeem   bool
	Reasons     []Reason
	UserPoints  int
	PointsCost  int // pointsCost × quantity
	IsAvailable bool
}

// Holder 兌換人的積分狀態（由積分帳戶提供）
type Holder struct {
	TotalPoints int
	Tier        tier.Tier
}

// CheckEligibility 純函數：依序檢查可用性、積分、等級
//
// 收集所有不滿足的原因；Err() 返回第一個原因對應的錯誤（first failure wins）。
func CheckEligibility(holder Holder, r *Reward, quantity int, now time.Time) Eligibility {
	if quantity <= 0 {
		quantity = 1
	}
	if err := r.CheckQuantity(quantity); err != nil {
		return Eligibility{
			Reasons:    []Reason{ReasonInvalidQuantity},
			UserPoints: holder.TotalPoints,
		}
	}
	cost := r.pointsCost * quantity

	e := Eligibility{
		UserPoints:  holder.TotalPoints,
		PointsCost:  cost,
		IsAvailable: r.IsAvailableFor(quantity, now),
	}

	if !e.IsAvailable {
		e.Reasons = append(e.Reasons, ReasonUnavailable)
	}
	if holder.TotalPoints < cost {
		e.Reasons = append(e.Reasons, ReasonInsufficientPoints)
	}
	if r.requiredTier != "" && !tier.Meets(holder.Tier, r.requiredTier) {
		e.Reasons = append(e.Reasons, ReasonTierNotMet)
	}

	e.CanRedeem = len(e.Reasons) == 0
	if e.Reasons == nil {
		e.Reasons = []Reason{}
	}
	return e
}

// Err 第一個不滿足條件對應的領域錯誤；可兌換時返回 nil
func (e Eligibility) Err(r *Reward) error {
	if e.CanRedeem {
		return nil
	}
	switch e.Reasons[0] {
	case ReasonInvalidQuantity:
		return ErrInvalidQuantity.WithContext("reward_id", r.rewardID.String(), "max", MaxRedeemQuantity)
	case ReasonUnavailable:
		return ErrRewardUnavailable.WithContext("reward_id", r.rewardID.String())
	case ReasonInsufficientPoints:
		return points.ErrInsufficientPoints.WithContext(
			"available", e.UserPoints,
			"requested", e.PointsCost,
		)
	default:
		return ErrTierNotMet.WithContext(
			"reward_id", r.rewardID.String(),
			"required_tier", string(r.requiredTier),
		)
	}
}
