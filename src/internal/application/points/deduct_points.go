package points

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// DeductPoints Use Case
// ===========================

// DeductPointsCommand 扣減積分
type DeductPointsCommand struct {
	UserID         string
	Points         int
	Reason         string
	ReferenceType  string // 空字串預設 redemption
	ReferenceID    string
	IdempotencyKey string
}

// DeductPointsResult 扣減結果
type DeductPointsResult struct {
	UserID         string `json:"user_id"`
	PointsDeducted int    `json:"points_deducted"`
	NewBalance     int    `json:"new_balance"`
	HistoryID      string `json:"history_id,omitempty"`
}

// DeductPointsUseCase 扣減積分 Use Case
//
// 前置條件：totalPoints >= points，否則 ErrInsufficientPoints 且不做任何變更。
// 累積積分與等級不變。
type DeductPointsUseCase struct {
	accounts    points.AccountRepository
	history     points.HistoryRepository
	idempotency *common.IdempotencyGuard
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewDeductPointsUseCase 創建 Use Case 實例
func NewDeductPointsUseCase(
	accounts points.AccountRepository,
	history points.HistoryRepository,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *DeductPointsUseCase {
	return &DeductPointsUseCase{
		accounts:    accounts,
		history:     history,
		idempotency: idempotency,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 在獨立事務中扣減積分
func (uc *DeductPointsUseCase) Execute(ctx context.Context, cmd DeductPointsCommand) (*DeductPointsResult, error) {
	var (
		result *DeductPointsResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationDeductPoints)
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
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationDeductPoints, result.HistoryID)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationDeductPoints, events.Events())
	return result, nil
}

// ExecuteWithContext 加入調用者的事務（獎勵兌換）
func (uc *DeductPointsUseCase) ExecuteWithContext(
	tx shared.TransactionContext,
	cmd DeductPointsCommand,
	events *common.EventBuffer,
) (*DeductPointsResult, error) {
	amount, err := points.NewPositivePointsAmount(cmd.Points)
	if err != nil {
		return nil, err
	}
	refType, err := points.ParseReferenceType(cmd.ReferenceType)
	if err != nil {
		return nil, err
	}
	if cmd.ReferenceType == "" {
		refType = points.ReferenceRedemption
	}

	account, err := findAccount(tx, uc.accounts, cmd.UserID)
	if err != nil {
		return nil, err
	}

	entry, err := account.Deduct(amount, points.Reference{Type: refType, ID: cmd.ReferenceID}, cmd.Reason, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.Update(tx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if err := uc.history.Append(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to append point history: %w", err)
	}
	events.Collect(account)

	return &DeductPointsResult{
		UserID:         account.UserID().String(),
		PointsDeducted: amount.Value(),
		NewBalance:     account.TotalPoints().Value(),
		HistoryID:      entry.HistoryID().String(),
	}, nil
}

func (uc *DeductPointsUseCase) replay(tx shared.TransactionContext, rawUserID, historyID string) (*DeductPointsResult, error) {
	account, err := findAccount(tx, uc.accounts, rawUserID)
	if err != nil {
		return nil, err
	}
	entry, err := findHistory(tx, uc.history, historyID)
	if err != nil {
		return nil, err
	}
	return &DeductPointsResult{
		UserID:         account.UserID().String(),
		PointsDeducted: -entry.Points(),
		NewBalance:     account.TotalPoints().Value(),
		HistoryID:      historyID,
	}, nil
}
