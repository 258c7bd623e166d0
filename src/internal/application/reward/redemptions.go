package reward

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// Redemption 生命週期 Use Case
// ===========================

// RedemptionLifecycleUseCase 管理員處理兌換：process / complete / cancel
//
// 取消會退回積分（refund 流水）並歸還有追蹤的庫存；
// 這些變更與狀態轉換在同一個事務中提交。
type RedemptionLifecycleUseCase struct {
	rewards      reward.RewardRepository
	redemptions  reward.RedemptionRepository
	refundPoints *pointsapp.RefundPointsUseCase
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewRedemptionLifecycleUseCase 創建 Use Case 實例
func NewRedemptionLifecycleUseCase(
	rewards reward.RewardRepository,
	redemptions reward.RedemptionRepository,
	refundPoints *pointsapp.RefundPointsUseCase,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *RedemptionLifecycleUseCase {
	return &RedemptionLifecycleUseCase{
		rewards:      rewards,
		redemptions:  redemptions,
		refundPoints: refundPoints,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Process pending → processing
func (uc *RedemptionLifecycleUseCase) Process(ctx context.Context, redemptionID string) (*RedemptionResult, error) {
	return uc.transition(ctx, redemptionID, func(tx shared.TransactionContext, r *reward.Redemption, events *common.EventBuffer) error {
		return r.Process(uc.clock.Now())
	})
}

// Complete processing → completed
func (uc *RedemptionLifecycleUseCase) Complete(ctx context.Context, redemptionID string) (*RedemptionResult, error) {
	return uc.transition(ctx, redemptionID, func(tx shared.TransactionContext, r *reward.Redemption, events *common.EventBuffer) error {
		return r.Complete(uc.clock.Now())
	})
}

// Cancel pending|processing → cancelled，退回積分並歸還庫存
func (uc *RedemptionLifecycleUseCase) Cancel(ctx context.Context, redemptionID string) (*RedemptionResult, error) {
	return uc.transition(ctx, redemptionID, func(tx shared.TransactionContext, r *reward.Redemption, events *common.EventBuffer) error {
		now := uc.clock.Now()
		if err := r.Cancel(now); err != nil {
			return err
		}

		_, err := uc.refundPoints.ExecuteWithContext(tx, pointsapp.RefundPointsCommand{
			UserID:       r.UserID().String(),
			Points:       r.PointsSpent(),
			RedemptionID: r.RedemptionID().String(),
			Description:  fmt.Sprintf("Refund for cancelled redemption %s", r.Code()),
		}, events)
		if err != nil {
			return fmt.Errorf("failed to refund points: %w", err)
		}

		rw, err := uc.rewards.FindByID(tx, r.RewardID())
		if err != nil {
			return fmt.Errorf("failed to find reward: %w", err)
		}
		if !rw.IsUnlimited() {
			rw.RestoreStock(r.Quantity(), now)
			if err := uc.rewards.Update(tx, rw); err != nil {
				return fmt.Errorf("failed to update reward: %w", err)
			}
		}
		return nil
	})
}

func (uc *RedemptionLifecycleUseCase) transition(
	ctx context.Context,
	redemptionID string,
	apply func(tx shared.TransactionContext, r *reward.Redemption, events *common.EventBuffer) error,
) (*RedemptionResult, error) {
	var (
		result *RedemptionResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := findRedemption(tx, uc.redemptions, redemptionID)
		if err != nil {
			return err
		}
		if err := apply(tx, r, &events); err != nil {
			return err
		}
		if err := uc.redemptions.Update(tx, r); err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}
		events.Collect(r)
		result = toRedemptionResult(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationRedemptionStatus, events.Events())
	return result, nil
}

// ===========================
// ExpireRedemptions Use Case
// ===========================

// ExpireResult 一次過期批次的結果
type ExpireResult struct {
	Expired int `json:"expired"`
	Failed  int `json:"failed"`
}

// ExpireRedemptionsUseCase 將已過期的 pending/processing 兌換標記為 expired（不退回積分）
//
// 每筆兌換使用獨立事務：單筆版本衝突（例如管理員同時取消）不影響其他筆。
type ExpireRedemptionsUseCase struct {
	redemptions reward.RedemptionRepository
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
	logger      *zap.Logger
	batchSize   int
}

// NewExpireRedemptionsUseCase 創建 Use Case 實例；batchSize <= 0 時為 100
func NewExpireRedemptionsUseCase(
	redemptions reward.RedemptionRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
	logger *zap.Logger,
	batchSize int,
) *ExpireRedemptionsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExpireRedemptionsUseCase{
		redemptions: redemptions,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
		logger:      logger,
		batchSize:   batchSize,
	}
}

// Execute 處理一個批次
func (uc *ExpireRedemptionsUseCase) Execute(ctx context.Context) (*ExpireResult, error) {
	now := uc.clock.Now()
	candidates, err := uc.redemptions.ListExpirable(nil, now, uc.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable redemptions: %w", err)
	}

	result := &ExpireResult{}
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		expired, err := uc.expireOne(ctx, candidate.RedemptionID(), now)
		if err != nil {
			result.Failed++
			uc.logger.Warn("expire redemption failed",
				zap.String("redemption_id", candidate.RedemptionID().String()),
				zap.Error(err),
			)
			continue
		}
		if expired {
			result.Expired++
		}
	}
	return result, nil
}

// expireOne 重新讀取後再轉換；期間被取消或完成的兌換會被略過
func (uc *ExpireRedemptionsUseCase) expireOne(ctx context.Context, id reward.RedemptionID, now time.Time) (bool, error) {
	var events common.EventBuffer
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := uc.redemptions.FindByID(tx, id)
		if err != nil {
			return fmt.Errorf("failed to find redemption: %w", err)
		}
		if !r.IsExpiredAt(now) {
			return nil
		}
		if err := r.Expire(now); err != nil {
			return err
		}
		if err := uc.redemptions.Update(tx, r); err != nil {
			return fmt.Errorf("failed to update redemption: %w", err)
		}
		events.Collect(r)
		return nil
	})
	if err != nil {
		return false, err
	}

	expired := len(events.Events()) > 0
	uc.dispatcher.Dispatch(ctx, OperationExpireRedemptions, events.Events())
	return expired, nil
}

// ===========================
// ListRedemptions
// ===========================

// ListRedemptionsQuery 兌換記錄查詢
type ListRedemptionsQuery struct {
	UserID string // 空字串表示全部（管理員）
	Status string
	Page   common.Page
}

// ListRedemptionsResult 兌換記錄分頁
type ListRedemptionsResult struct {
	Items    []*RedemptionResult `json:"items"`
	PageInfo common.PageInfo     `json:"page_info"`
}

// RedemptionQueryUseCase 兌換記錄查詢
type RedemptionQueryUseCase struct {
	redemptions reward.RedemptionRepository
}

// NewRedemptionQueryUseCase 創建 Use Case 實例
func NewRedemptionQueryUseCase(redemptions reward.RedemptionRepository) *RedemptionQueryUseCase {
	return &RedemptionQueryUseCase{redemptions: redemptions}
}

// List 按時間倒序
func (uc *RedemptionQueryUseCase) List(q ListRedemptionsQuery) (*ListRedemptionsResult, error) {
	var filter reward.RedemptionFilter
	if q.UserID != "" {
		userID, err := shared.UserIDFromString(q.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user ID: %w", err)
		}
		filter.UserID = userID
	}
	if q.Status != "" {
		status, err := reward.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	page := q.Page.Normalize()
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	redemptions, total, err := uc.redemptions.List(nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	items := make([]*RedemptionResult, 0, len(redemptions))
	for _, r := range redemptions {
		items = append(items, toRedemptionResult(r))
	}
	return &ListRedemptionsResult{Items: items, PageInfo: common.NewPageInfo(page, total)}, nil
}

// Get 單筆兌換；userID 非空時只能查看自己的兌換
func (uc *RedemptionQueryUseCase) Get(redemptionID, userID string) (*RedemptionResult, error) {
	r, err := findRedemption(nil, uc.redemptions, redemptionID)
	if err != nil {
		return nil, err
	}
	if userID != "" && r.UserID().String() != userID {
		return nil, reward.ErrRedemptionNotFound.WithContext("redemption_id", redemptionID)
	}
	return toRedemptionResult(r), nil
}
