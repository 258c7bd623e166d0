package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// VoidTransactionCommand 作廢交易命令
type VoidTransactionCommand struct {
	TransactionID string
	Reason        string
	VoidedBy      string
}

// VoidTransactionUseCase 作廢交易
//
// 作廢只是審計標記，不回沖卡片餘額；需要退回金額時使用 RefundUseCase。
type VoidTransactionUseCase struct {
	transactions card.TransactionRepository
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewVoidTransactionUseCase 創建 Use Case 實例
func NewVoidTransactionUseCase(
	transactions card.TransactionRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *VoidTransactionUseCase {
	return &VoidTransactionUseCase{
		transactions: transactions,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 作廢；已作廢返回 ErrTransactionAlreadyVoided
func (uc *VoidTransactionUseCase) Execute(ctx context.Context, cmd VoidTransactionCommand) (*TransactionResult, error) {
	voidedBy, err := optionalUserID(cmd.VoidedBy)
	if err != nil {
		return nil, err
	}

	var (
		result *TransactionResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		transaction, err := findTransaction(tx, uc.transactions, cmd.TransactionID)
		if err != nil {
			return err
		}
		if err := transaction.Void(cmd.Reason, voidedBy, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.transactions.MarkVoided(tx, transaction); err != nil {
			return fmt.Errorf("failed to void transaction: %w", err)
		}

		events.Add(card.NewTransactionVoidedEvent(transaction))
		result = toTransactionResult(transaction)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationVoid, events.Events())
	return result, nil
}
