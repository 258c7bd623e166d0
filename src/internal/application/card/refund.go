package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// RefundCommand 付款退款命令
type RefundCommand struct {
	TransactionID  string // 原付款交易
	Description    string
	CashierID      string
	IdempotencyKey string
}

// RefundResult 退款結果
type RefundResult struct {
	Card        *CardResult        `json:"card"`
	Transaction *TransactionResult `json:"transaction"`
}

// RefundUseCase 付款退款（補償交易）
//
// 每筆付款最多退款一次：refund_of 唯一索引，第二次返回 ErrAlreadyRefunded。
type RefundUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewRefundUseCase 創建 Use Case 實例
func NewRefundUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *RefundUseCase {
	return &RefundUseCase{
		cards:        cards,
		transactions: transactions,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 退款
func (uc *RefundUseCase) Execute(ctx context.Context, cmd RefundCommand) (*RefundResult, error) {
	cashierID, err := optionalUserID(cmd.CashierID)
	if err != nil {
		return nil, err
	}

	var (
		result *RefundResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationRefund)
		if err != nil {
			return err
		}
		if replay {
			transaction, c, err := replayTransaction(tx, uc.cards, uc.transactions, resourceID)
			if err != nil {
				return err
			}
			result = &RefundResult{Card: toCardResult(c, uc.clock.Now()), Transaction: toTransactionResult(transaction)}
			return nil
		}

		payment, err := findTransaction(tx, uc.transactions, cmd.TransactionID)
		if err != nil {
			return err
		}
		c, err := uc.cards.FindByID(tx, payment.CardID())
		if err != nil {
			return fmt.Errorf("failed to find card: %w", err)
		}

		now := uc.clock.Now()
		description := cmd.Description
		if description == "" {
			description = fmt.Sprintf("Refund of %s", payment.Reference())
		}
		refund, err := c.RefundPayment(payment, card.Operation{
			Reference:   uc.codes.TransactionReference(),
			CashierID:   cashierID,
			Description: description,
			Now:         now,
		})
		if err != nil {
			return err
		}

		if err := uc.cards.Update(tx, c); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := uc.transactions.Save(tx, refund); err != nil {
			return fmt.Errorf("failed to save refund: %w", err)
		}
		events.Collect(c)

		result = &RefundResult{Card: toCardResult(c, now), Transaction: toTransactionResult(refund)}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationRefund, refund.TransactionID().String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationRefund, events.Events())
	return result, nil
}
