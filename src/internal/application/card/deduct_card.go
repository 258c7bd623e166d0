package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// PaymentItem 付款明細項目
type PaymentItem struct {
	Name      string
	Quantity  int
	UnitPrice shared.Money
}

// DeductCardCommand 付款扣款命令
type DeductCardCommand struct {
	CardID         string
	Amount         shared.Money
	Description    string
	Items          []PaymentItem
	CashierID      string
	IdempotencyKey string
}

// DeductCardResult 扣款結果
type DeductCardResult struct {
	Card        *CardResult        `json:"card"`
	Transaction *TransactionResult `json:"transaction"`
}

// DeductCardUseCase 付款扣款 Use Case
type DeductCardUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewDeductCardUseCase 創建 Use Case 實例
func NewDeductCardUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *DeductCardUseCase {
	return &DeductCardUseCase{
		cards:        cards,
		transactions: transactions,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 扣款；餘額不足返回 ErrInsufficientBalance 且不變更
func (uc *DeductCardUseCase) Execute(ctx context.Context, cmd DeductCardCommand) (*DeductCardResult, error) {
	cashierID, err := optionalUserID(cmd.CashierID)
	if err != nil {
		return nil, err
	}
	items := make([]card.PaymentItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, card.PaymentItem{Name: item.Name, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}

	var (
		result *DeductCardResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationDeductCard)
		if err != nil {
			return err
		}
		if replay {
			transaction, c, err := replayTransaction(tx, uc.cards, uc.transactions, resourceID)
			if err != nil {
				return err
			}
			result = &DeductCardResult{Card: toCardResult(c, uc.clock.Now()), Transaction: toTransactionResult(transaction)}
			return nil
		}

		c, err := findCard(tx, uc.cards, cmd.CardID, "")
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		transaction, err := c.Deduct(cmd.Amount, items, card.Operation{
			Reference:   uc.codes.TransactionReference(),
			CashierID:   cashierID,
			Description: cmd.Description,
			Now:         now,
		})
		if err != nil {
			return err
		}

		if err := uc.cards.Update(tx, c); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := uc.transactions.Save(tx, transaction); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		events.Collect(c)

		result = &DeductCardResult{Card: toCardResult(c, now), Transaction: toTransactionResult(transaction)}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationDeductCard, transaction.TransactionID().String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationDeductCard, events.Events())
	return result, nil
}
