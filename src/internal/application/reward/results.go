package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// RewardResult 獎勵
type RewardResult struct {
	RewardID     string     `json:"reward_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	ImageURL     string     `json:"image_url,omitempty"`
	Terms        string     `json:"terms,omitempty"`
	PointsCost   int        `json:"points_cost"`
	Stock        int        `json:"stock"` // -1 表示不限量
	RedeemCount  int        `json:"redeem_count"`
	RequiredTier string     `json:"required_tier,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsFeatured   bool       `json:"is_featured"`
	IsAvailable  bool       `json:"is_available"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toRewardResult(r *reward.Reward, now time.Time) *RewardResult {
	return &RewardResult{
		RewardID:     r.RewardID().String(),
		Name:         r.Name(),
		Description:  r.Description(),
		Category:     r.Category(),
		ImageURL:     r.ImageURL(),
		Terms:        r.Terms(),
		PointsCost:   r.PointsCost(),
		Stock:        r.Stock(),
		RedeemCount:  r.RedeemCount(),
		RequiredTier: r.RequiredTier().String(),
		IsActive:     r.IsActive(),
		IsFeatured:   r.IsFeatured(),
		IsAvailable:  r.IsAvailable(now),
		ValidFrom:    r.ValidFrom(),
		ValidUntil:   r.ValidUntil(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}

// RedemptionResult 兌換記錄
type RedemptionResult struct {
	RedemptionID    string                  `json:"redemption_id"`
	UserID          string                  `json:"user_id"`
	RewardID        string                  `json:"reward_id"`
	RewardName      string                  `json:"reward_name"`
	PointsSpent     int                     `json:"points_spent"`
	Quantity        int                     `json:"quantity"`
	Status          string                  `json:"status"`
	Code            string                  `json:"code"`
	ExpiresAt       time.Time               `json:"expires_at"`
	UsedAt          *time.Time              `json:"used_at,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	DeliveryAddress *reward.DeliveryAddress `json:"delivery_address,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func toRedemptionResult(r *reward.Redemption) *RedemptionResult {
	return &RedemptionResult{
		RedemptionID:    r.RedemptionID().String(),
		UserID:          r.UserID().String(),
		RewardID:        r.RewardID().String(),
		RewardName:      r.RewardName(),
		PointsSpent:     r.PointsSpent(),
		Quantity:        r.Quantity(),
		Status:          string(r.Status()),
		Code:            r.Code(),
		ExpiresAt:       r.ExpiresAt(),
		UsedAt:          r.UsedAt(),
		Notes:           r.Notes(),
		DeliveryAddress: r.DeliveryAddress(),
		CreatedAt:       r.CreatedAt(),
	}
}

// EligibilityResult 兌換資格
type EligibilityResult struct {
	CanRedeem   bool     `json:"can_redeem"`
	Reasons     []string `json:"reasons"`
	UserPoints  int      `json:"user_points"`
	PointsCost  int      `json:"points_cost"`
	IsAvailable bool     `json:"is_available"`
}

func toEligibilityResult(e reward.Eligibility) *EligibilityResult {
	reasons := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		reasons = append(reasons, string(r))
	}
	return &EligibilityResult{
		CanRedeem:   e.CanRedeem,
		Reasons:     reasons,
		UserPoints:  e.UserPoints,
		PointsCost:  e.PointsCost,
		IsAvailable: e.IsAvailable,
	}
}

// ===========================
// 共用輔助函數
// ===========================

func findReward(tx shared.TransactionContext, rewards reward.RewardRepository, rawID string) (*reward.Reward, error) {
	id, err := reward.RewardIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reward ID: %w", err)
	}
	r, err := rewards.FindByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find reward: %w", err)
	}
	return r, nil
}

func findRedemption(tx shared.TransactionContext, redemptions reward.RedemptionRepository, rawID string) (*reward.Redemption, error) {
	id, err := reward.RedemptionIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redemption ID: %w", err)
	}
	r, err := redemptions.FindByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find redemption: %w", err)
	}
	return r, nil
}

// holderOf 兌換人的積分狀態；尚未開戶視為 0 點 bronze
func holderOf(tx shared.TransactionContext, accounts points.AccountRepository, userID shared.UserID) (reward.Holder, error) {
	account, err := accounts.FindByUserID(tx, userID)
	if errors.Is(err, points.ErrAccountNotFound) {
		return reward.Holder{Tier: tier.Bronze}, nil
	}
	if err != nil {
		return reward.Holder{}, fmt.Errorf("failed to find account: %w", err)
	}
	return reward.Holder{TotalPoints: account.TotalPoints().Value(), Tier: account.Tier()}, nil
}
