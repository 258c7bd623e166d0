package points

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// AwardBonusCommand 活動贈送積分
type AwardBonusCommand struct {
	UserID         string
	Points         int
	Description    string
	AdminID        string // 操作的管理員；空字串表示系統活動
	IdempotencyKey string
}

// PointsChangeResult 積分變動結果（bonus / adjustment）
type PointsChangeResult struct {
	UserID         string `json:"user_id"`
	Requested      int    `json:"requested"`
	Applied        int    `json:"applied"`              // adjustment 扣減被 clamp 時與 Requested 不同
	TotalPoints    int    `json:"total_points"`
	LifetimePoints int    `json:"lifetime_points"`
	Tier           string `json:"tier"`
	HistoryID      string `json:"history_id,omitempty"` // 實際差額為 0 時為空
}

// AwardBonusUseCase 活動贈送積分（計入累積積分，可能升級）
type AwardBonusUseCase struct {
	accounts    points.AccountRepository
	history     points.HistoryRepository
	idempotency *common.IdempotencyGuard
	txManager   shared.TransactionManager
	dispatcher  *common.EventDispatcher
	clock       shared.Clock
}

// NewAwardBonusUseCase 創建 Use Case 實例
func NewAwardBonusUseCase(
	accounts points.AccountRepository,
	history points.HistoryRepository,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *AwardBonusUseCase {
	return &AwardBonusUseCase{
		accounts:    accounts,
		history:     history,
		idempotency: idempotency,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clock,
	}
}

// Execute 執行贈送
func (uc *AwardBonusUseCase) Execute(ctx context.Context, cmd AwardBonusCommand) (*PointsChangeResult, error) {
	amount, err := points.NewPositivePointsAmount(cmd.Points)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	var (
		result *PointsChangeResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationAwardBonus)
		if err != nil {
			return err
		}
		if replay {
			result, err = replayChange(tx, uc.accounts, uc.history, cmd.UserID, cmd.Points, resourceID)
			return err
		}

		account, err := openAccount(tx, uc.accounts, userID, uc.clock)
		if err != nil {
			return err
		}
		ref := adminReference(cmd.AdminID)
		entry, err := account.AwardBonus(amount, ref, cmd.Description, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := persistChange(tx, uc.accounts, uc.history, account, entry); err != nil {
			return err
		}
		events.Collect(account)

		result = changeResult(account, cmd.Points, entry)
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationAwardBonus, result.HistoryID)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationAwardBonus, events.Events())
	return result, nil
}

// ===========================
// bonus / adjustment 共用輔助函數
// ===========================

func adminReference(adminID string) points.Reference {
	if adminID == "" {
		return points.Reference{Type: points.ReferenceSystem}
	}
	return points.Reference{Type: points.ReferenceAdmin, ID: adminID}
}

// persistChange 更新帳戶並追加流水；entry 為 nil（實際差額為 0）時不寫入
func persistChange(
	tx shared.TransactionContext,
	accounts points.AccountRepository,
	history points.HistoryRepository,
	account *points.Account,
	entry *points.PointHistory,
) error {
	if entry == nil {
		return nil
	}
	if err := accounts.Update(tx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if err := history.Append(tx, entry); err != nil {
		return fmt.Errorf("failed to append point history: %w", err)
	}
	return nil
}

func changeResult(account *points.Account, requested int, entry *points.PointHistory) *PointsChangeResult {
	r := &PointsChangeResult{
		UserID:         account.UserID().String(),
		Requested:      requested,
		TotalPoints:    account.TotalPoints().Value(),
		LifetimePoints: account.LifetimePoints().Value(),
		Tier:           account.Tier().String(),
	}
	if entry != nil {
		r.Applied = entry.Points()
		r.HistoryID = entry.HistoryID().String()
	}
	return r
}

func replayChange(
	tx shared.TransactionContext,
	accounts points.AccountRepository,
	history points.HistoryRepository,
	rawUserID string,
	requested int,
	historyID string,
) (*PointsChangeResult, error) {
	account, err := findAccount(tx, accounts, rawUserID)
	if err != nil {
		return nil, err
	}
	if historyID == "" {
		return changeResult(account, requested, nil), nil
	}
	entry, err := findHistory(tx, history, historyID)
	if err != nil {
		return nil, err
	}
	return changeResult(account, requested, entry), nil
}
