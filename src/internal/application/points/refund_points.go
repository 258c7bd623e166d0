package points

import (
	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// RefundPointsCommand 退回兌換扣減的積分
type RefundPointsCommand struct {
	UserID       string
	Points       int
	RedemptionID string
	Description  string
}

// RefundPointsUseCase 取消兌換時退回積分
//
// 只提供 ExecuteWithContext：退回一定與兌換狀態變更在同一個事務中。
// 停用的帳戶也能收到退回，且不計入累積積分。
type RefundPointsUseCase struct {
	accounts points.AccountRepository
	history  points.HistoryRepository
	clock    shared.Clock
}

// NewRefundPointsUseCase 創建 Use Case 實例
func NewRefundPointsUseCase(
	accounts points.AccountRepository,
	history points.HistoryRepository,
	clock shared.Clock,
) *RefundPointsUseCase {
	return &RefundPointsUseCase{accounts: accounts, history: history, clock: clock}
}

// ExecuteWithContext 加入調用者的事務
func (uc *RefundPointsUseCase) ExecuteWithContext(
	tx shared.TransactionContext,
	cmd RefundPointsCommand,
	events *common.EventBuffer,
) (*PointsChangeResult, error) {
	amount, err := points.NewPositivePointsAmount(cmd.Points)
	if err != nil {
		return nil, err
	}
	account, err := findAccount(tx, uc.accounts, cmd.UserID)
	if err != nil {
		return nil, err
	}

	ref := points.Reference{Type: points.ReferenceRedemption, ID: cmd.RedemptionID}
	entry, err := account.Refund(amount, ref, cmd.Description, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := persistChange(tx, uc.accounts, uc.history, account, entry); err != nil {
		return nil, err
	}
	events.Collect(account)
	return changeResult(account, cmd.Points, entry), nil
}
