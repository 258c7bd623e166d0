package points

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// 冪等鍵記錄的操作名稱
const (
	OperationAwardPoints  = "points.award"
	OperationDeductPoints = "points.deduct"
	OperationAwardBonus   = "points.bonus"
	OperationAdjustPoints = "points.adjust"
)

// ===========================
// AwardPoints Use Case
// ===========================

// AwardPointsCommand 消費/儲值獲得積分
type AwardPointsCommand struct {
	UserID         string
	Amount         shared.Money
	ReferenceID    string // 卡片交易 ID；空字串時關聯類型為 system
	Description    string
	IdempotencyKey string
}

// AwardPointsResult 獲得積分結果
type AwardPointsResult struct {
	UserID         string `json:"user_id"`
	PointsAwarded  int    `json:"points_awarded"`
	BasePoints     int    `json:"base_points"`
	BonusPoints    int    `json:"bonus_points"`
	Multiplier     string `json:"multiplier"`
	TotalPoints    int    `json:"total_points"`
	LifetimePoints int    `json:"lifetime_points"`
	Tier           string `json:"tier"`
	TierUpgraded   bool   `json:"tier_upgraded"`
	HistoryID      string `json:"history_id,omitempty"` // 零積分時為空
}

// AwardPointsUseCase 獲得積分 Use Case
//
// 職責：
// 1. 依帳戶目前等級計算 base / bonus（PointsCalculationService）
// 2. 增加可用積分與累積積分、重算等級
// 3. 追加 earn 流水（含 before/after 與計算明細）
//
// 帳戶不存在時自動開戶。
type AwardPointsUseCase struct {
	accounts    points.AccountRepository
	history     points.HistoryRepository
	calculator  *points.PointsCalculationService
	idempotency *common.IdempotencyGuard
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewAwardPointsUseCase 創建 Use Case 實例
func NewAwardPointsUseCase(
	accounts points.AccountRepository,
	history points.HistoryRepository,
	calculator *points.PointsCalculationService,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *AwardPointsUseCase {
	return &AwardPointsUseCase{
		accounts:    accounts,
		history:     history,
		calculator:  calculator,
		idempotency: idempotency,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 在獨立事務中獲得積分
//
// 錯誤處理：
// - shared.ErrInvalidAmount: 金額 <= 0
// - ErrAccountInactive: 帳戶已停用
// - shared.ErrConcurrentModification: 帳戶被並發修改
func (uc *AwardPointsUseCase) Execute(ctx context.Context, cmd AwardPointsCommand) (*AwardPointsResult, error) {
	var (
		result *AwardPointsResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationAwardPoints)
		if err != nil {
			return err
		}
		if replay {
			result, err = uc.replay(tx, cmd.UserID, resourceID)
			return err
		}

		result, err = uc.ExecuteWithContext(tx, cmd, &events)
		if err != nil {
			return err
		}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationAwardPoints, result.HistoryID)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationAwardPoints, events.Events())
	return result, nil
}

// ExecuteWithContext 加入調用者的事務（卡片儲值）
//
// 不會開啟新事務；錯誤時由調用者的 TransactionManager 回滾。
func (uc *AwardPointsUseCase) ExecuteWithContext(
	tx shared.TransactionContext,
	cmd AwardPointsCommand,
	events *common.EventBuffer,
) (*AwardPointsResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if cmd.Amount.IsZero() {
		return nil, shared.ErrInvalidAmount.WithContext("amount", cmd.Amount.String(), "reason", "must be positive")
	}

	account, err := openAccount(tx, uc.accounts, userID, uc.clock)
	if err != nil {
		return nil, err
	}

	award := uc.calculator.CalculateAward(cmd.Amount, account.Tier())
	ref := points.Reference{Type: points.ReferenceSystem}
	if cmd.ReferenceID != "" {
		ref = points.Reference{Type: points.ReferenceTransaction, ID: cmd.ReferenceID}
	}
	description := cmd.Description
	if description == "" {
		description = fmt.Sprintf("Earned from ฿%s purchase", cmd.Amount.String())
	}

	tierBefore := account.Tier()
	entry, err := account.Earn(award, ref, description, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	result := &AwardPointsResult{
		UserID:         userID.String(),
		Multiplier:     award.Multiplier.String(),
		TotalPoints:    account.TotalPoints().Value(),
		LifetimePoints: account.LifetimePoints().Value(),
		Tier:           account.Tier().String(),
	}
	// 零積分：不更新帳戶、不寫流水
	if entry == nil {
		events.Collect(account)
		return result, nil
	}

	if err := uc.accounts.Update(tx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if err := uc.history.Append(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append point history: %w", err)
	}
	events.Collect(account)

	result.PointsAwarded = entry.Points()
	result.BasePoints = award.Base
	result.BonusPoints = award.Bonus
	result.TierUpgraded = account.Tier() != tierBefore
	result.HistoryID = entry.HistoryID().String()
	return result, nil
}

// replay 重放：返回第一次寫入的流水與帳戶目前狀態
func (uc *AwardPointsUseCase) replay(tx shared.TransactionContext, rawUserID, historyID string) (*AwardPointsResult, error) {
	account, err := findAccount(tx, uc.accounts, rawUserID)
	if err != nil {
		return nil, err
	}

	result := &AwardPointsResult{
		UserID:         account.UserID().String(),
		TotalPoints:    account.TotalPoints().Value(),
		LifetimePoints: account.LifetimePoints().Value(),
		Tier:           account.Tier().String(),
	}
	if historyID == "" {
		return result, nil
	}

	entry, err := findHistory(tx, uc.history, historyID)
	if err != nil {
		return nil, err
	}
	result.PointsAwarded = entry.Points()
	result.BasePoints = entry.BasePoints()
	result.BonusPoints = entry.BonusPoints()
	result.Multiplier = entry.Multiplier().String()
	result.HistoryID = historyID
	return result, nil
}

func findHistory(tx shared.TransactionContext, history points.HistoryRepository, rawID string) (*points.PointHistory, error) {
	id, err := points.HistoryIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history ID: %w", err)
	}
	entry, err := history.FindByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find point history: %w", err)
	}
	return entry, nil
}
