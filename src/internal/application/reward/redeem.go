package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// 冪等鍵記錄的操作名稱
const (
	OperationRedeem            = "reward.redeem"
	OperationRedemptionStatus  = "reward.redemption_status"
	OperationExpireRedemptions = "reward.expire"
)

// Policy 兌換業務參數（來自配置）
type Policy struct {
	RedemptionValidity time.Duration
}

// ===========================
// Redeem Use Case
// ===========================

// RedeemCommand 兌換命令
type RedeemCommand struct {
	UserID          string
	RewardID        string
	Quantity        int // 0 視為 1
	DeliveryAddress *reward.DeliveryAddress
	Notes           string
	IdempotencyKey  string
}

// RedeemResult 兌換結果
type RedeemResult struct {
	Redemption      *RedemptionResult `json:"redemption"`
	PointsRemaining int               `json:"points_remaining"`
}

// RedeemUseCase 兌換獎勵
//
// 同一個資料庫事務內：
// 1. 在事務內重新檢查資格（可用性 → 積分 → 等級）
// 2. 扣庫存、累計兌換數（reward 版本號檢查）
// 3. 扣減積分並寫 redeem 流水（account 版本號檢查）
// 4. 建立兌換記錄（唯一兌換碼、有效期）
//
// 兩個並發兌換讀到同一個版本時，後提交者得到 ErrConcurrentModification。
type RedeemUseCase struct {
	accounts     points.AccountRepository
	rewards      reward.RewardRepository
	redemptions  reward.RedemptionRepository
	deductPoints *pointsapp.DeductPointsUseCase
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
	policy       Policy
}

// NewRedeemUseCase 創建 Use Case 實例
func NewRedeemUseCase(
	accounts points.AccountRepository,
	rewards reward.RewardRepository,
	redemptions reward.RedemptionRepository,
	deductPoints *pointsapp.DeductPointsUseCase,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
	policy Policy,
) *RedeemUseCase {
	return &RedeemUseCase{
		accounts:     accounts,
		rewards:      rewards,
		redemptions:  redemptions,
		deductPoints: deductPoints,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
		policy:       policy,
	}
}

// Execute 兌換
//
// 錯誤處理（依檢查順序，第一個失敗者返回）：
// - ErrRewardUnavailable: 未啟用、不在有效期或庫存 < 數量
// - points.ErrInsufficientPoints
// - ErrTierNotMet
// - shared.ErrConcurrentModification: 帳戶或獎勵被並發修改
func (uc *RedeemUseCase) Execute(ctx context.Context, cmd RedeemCommand) (*RedeemResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	quantity := cmd.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, reward.ErrInvalidQuantity.WithContext("quantity", quantity)
	}

	var (
		result *RedeemResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationRedeem)
		if err != nil {
			return err
		}
		if replay {
			result, err = uc.replay(tx, userID, resourceID)
			return err
		}

		r, err := findReward(tx, uc.rewards, cmd.RewardID)
		if err != nil {
			return err
		}
		holder, err := holderOf(tx, uc.accounts, userID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		eligibility := reward.CheckEligibility(holder, r, quantity, now)
		if err := eligibility.Err(r); err != nil {
			return err
		}

		if err := r.Reserve(quantity, now); err != nil {
			return err
		}
		redemption, err := reward.NewRedemption(userID, r, quantity, uc.codes.RedemptionCode(),
			cmd.DeliveryAddress, cmd.Notes, uc.policy.RedemptionValidity, now)
		if err != nil {
			return err
		}

		deducted, err := uc.deductPoints.ExecuteWithContext(tx, pointsapp.DeductPointsCommand{
			UserID:        userID.String(),
			Points:        redemption.PointsSpent(),
			Reason:        fmt.Sprintf("Redeemed %s", r.Name()),
			ReferenceType: string(points.ReferenceRedemption),
			ReferenceID:   redemption.RedemptionID().String(),
		}, &events)
		if err != nil {
			return fmt.Errorf("failed to deduct points: %w", err)
		}

		if err := uc.rewards.Update(tx, r); err != nil {
			return fmt.Errorf("failed to update reward: %w", err)
		}
		if err := uc.redemptions.Save(tx, redemption); err != nil {
			return fmt.Errorf("failed to save redemption: %w", err)
		}
		events.Collect(redemption)

		result = &RedeemResult{
			Redemption:      toRedemptionResult(redemption),
			PointsRemaining: deducted.NewBalance,
		}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationRedeem, redemption.RedemptionID().String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationRedeem, events.Events())
	return result, nil
}

func (uc *RedeemUseCase) replay(tx shared.TransactionContext, userID shared.UserID, redemptionID string) (*RedeemResult, error) {
	redemption, err := findRedemption(tx, uc.redemptions, redemptionID)
	if err != nil {
		return nil, err
	}
	holder, err := holderOf(tx, uc.accounts, userID)
	if err != nil {
		return nil, err
	}
	return &RedeemResult{Redemption: toRedemptionResult(redemption), PointsRemaining: holder.TotalPoints}, nil
}

// ===========================
// CheckRedeemability Use Case
// ===========================

// CheckRedeemabilityUseCase 兌換資格查詢（純讀取，不變更任何狀態）
type CheckRedeemabilityUseCase struct {
	accounts points.AccountRepository
	rewards  reward.RewardRepository
	clock    shared.Clock
}

// NewCheckRedeemabilityUseCase 創建 Use Case 實例
func NewCheckRedeemabilityUseCase(
	accounts points.AccountRepository,
	rewards reward.RewardRepository,
	clock shared.Clock,
) *CheckRedeemabilityUseCase {
	return &CheckRedeemabilityUseCase{accounts: accounts, rewards: rewards, clock: clock}
}

// Execute 返回所有不滿足的原因（順序：可用性、積分、等級）
func (uc *CheckRedeemabilityUseCase) Execute(userID, rewardID string, quantity int) (*EligibilityResult, error) {
	uid, err := shared.UserIDFromString(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	r, err := findReward(nil, uc.rewards, rewardID)
	if err != nil {
		return nil, err
	}
	holder, err := holderOf(nil, uc.accounts, uid)
	if err != nil {
		return nil, err
	}
	return toEligibilityResult(reward.CheckEligibility(holder, r, quantity, uc.clock.Now())), nil
}
