package points

import (
	"context"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// AdjustPointsCommand 管理員調整積分（正數加、負數減）
type AdjustPointsCommand struct {
	UserID         string
	Delta          int
	Reason         string
	AdminID        string
	IdempotencyKey string
}

// AdjustPointsUseCase 管理員調整積分
//
// 扣減超過餘額時 clamp 到 0，流水記錄實際套用的差額；不影響累積積分與等級。
type AdjustPointsUseCase struct {
	accounts    points.AccountRepository
	history     points.HistoryRepository
	idempotency *common.IdempotencyGuard
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewAdjustPointsUseCase 創建 Use Case 實例
func NewAdjustPointsUseCase(
	accounts points.AccountRepository,
	history points.HistoryRepository,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *AdjustPointsUseCase {
	return &AdjustPointsUseCase{
		accounts:    accounts,
		history:     history,
		idempotency: idempotency,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 執行調整
//
// 錯誤處理：
// - ErrInvalidPointsAmount: delta 為 0
// - ErrAccountNotFound: 帳戶不存在（調整不會自動開戶）
func (uc *AdjustPointsUseCase) Execute(ctx context.Context, cmd AdjustPointsCommand) (*PointsChangeResult, error) {
	if cmd.Delta == 0 {
		return nil, points.ErrInvalidPointsAmount.WithContext("delta", 0)
	}

	var (
		result *PointsChangeResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationAdjustPoints)
		if err != nil {
			return err
		}
		if replay {
			result, err = replayChange(tx, uc.accounts, uc.history, cmd.UserID, cmd.Delta, resourceID)
			return err
		}

		account, err := findAccount(tx, uc.accounts, cmd.UserID)
		if err != nil {
			return err
		}
		entry, err := account.Adjust(cmd.Delta, adminReference(cmd.AdminID), cmd.Reason, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := persistChange(tx, uc.accounts, uc.history, account, entry); err != nil {
			return err
		}
		events.Collect(account)

		result = changeResult(account, cmd.Delta, entry)
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationAdjustPoints, result.HistoryID)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationAdjustPoints, events.Events())
	return result, nil
}
