package points

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// CreateAccount Use Case
// ===========================

// CreateAccountCommand 創建積分帳戶的命令
//
// 驗證：
// - UserID 必須是有效的 UUID 格式
// - UserID 不能已經有積分帳戶
type CreateAccountCommand struct {
	UserID string
}

// CreateAccountUseCase 創建積分帳戶 Use Case
//
// 並發安全：不使用 check-then-insert，依賴資料庫 user_id 唯一約束。
type CreateAccountUseCase struct {
	accounts   points.AccountRepository
	txManager  shared.TransactionManager
	dispatcher *common.EventDispatcher
	clock      shared.Clock
}

// NewCreateAccountUseCase 創建 Use Case 實例
func NewCreateAccountUseCase(
	accounts points.AccountRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accounts:   accounts,
		txManager:  txManager,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Execute 執行創建積分帳戶
//
// 錯誤處理：
// - shared.ErrInvalidUserID: UserID 格式無效
// - ErrAccountAlreadyExists: 用戶已有積分帳戶
func (uc *CreateAccountUseCase) Execute(ctx context.Context, cmd CreateAccountCommand) (*AccountResult, error) {
	var (
		result *AccountResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		var err error
		result, err = uc.ExecuteWithContext(tx, cmd, &events)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, "points.create_account", events.Events())
	return result, nil
}

// ExecuteWithContext 在已有事務上下文中執行創建帳戶
//
// 不會開啟新事務；事件收集到 events，由調用者在提交後派發。
func (uc *CreateAccountUseCase) ExecuteWithContext(
	tx shared.TransactionContext,
	cmd CreateAccountCommand,
	events *common.EventBuffer,
) (*AccountResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	account, err := points.NewAccount(userID, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create points account: %w", err)
	}

	if err := uc.accounts.Save(tx, account); err != nil {
		if errors.Is(err, points.ErrAccountAlreadyExists) {
			return nil, fmt.Errorf("user already has an account: %w", err)
		}
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	events.Collect(account)
	return toAccountResult(account), nil
}

// openAccount 查找帳戶；不存在時建立（第一次獲得積分時開戶）
func openAccount(
	tx shared.TransactionContext,
	accounts points.AccountRepository,
	userID shared.UserID,
	clock shared.Clock,
) (*points.Account, error) {
	account, err := accounts.FindByUserID(tx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, points.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	account, err = points.NewAccount(userID, clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create points account: %w", err)
	}
	if err := accounts.Save(tx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

// findAccount 查找帳戶（不存在時返回 ErrAccountNotFound）
func findAccount(tx shared.TransactionContext, accounts points.AccountRepository, rawUserID string) (*points.Account, error) {
	userID, err := shared.UserIDFromString(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	account, err := accounts.FindByUserID(tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}
