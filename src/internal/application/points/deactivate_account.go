package points

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// DeactivateAccountUseCase 停用 / 重新啟用積分帳戶（軟刪除）
//
// 停用的帳戶不能獲得或扣減積分；兌換取消的退回不受影響。
type DeactivateAccountUseCase struct {
	accounts  points.AccountRepository
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewDeactivateAccountUseCase 創建 Use Case 實例
func NewDeactivateAccountUseCase(
	accounts points.AccountRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *DeactivateAccountUseCase {
	return &DeactivateAccountUseCase{accounts: accounts, txManager: txManager, clock: clock}
}

// Execute 停用帳戶（冪等）
func (uc *DeactivateAccountUseCase) Execute(ctx context.Context, userID string) (*AccountResult, error) {
	return uc.setActive(ctx, userID, false)
}

// Reactivate 重新啟用帳戶（冪等）
func (uc *DeactivateAccountUseCase) Reactivate(ctx context.Context, userID string) (*AccountResult, error) {
	return uc.setActive(ctx, userID, true)
}

func (uc *DeactivateAccountUseCase) setActive(ctx context.Context, userID string, active bool) (*AccountResult, error) {
	var result *AccountResult
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		account, err := findAccount(tx, uc.accounts, userID)
		if err != nil {
			return err
		}
		if account.IsActive() == active {
			result = toAccountResult(account)
			return nil
		}

		if active {
			account.Activate(uc.clock.Now())
		} else {
			account.Deactivate(uc.clock.Now())
		}
		if err := uc.accounts.Update(tx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		result = toAccountResult(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
