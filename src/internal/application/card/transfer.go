package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// Transfer Use Case
// ===========================

// TransferCommand 卡對卡轉帳命令
type TransferCommand struct {
	FromCardID     string
	ToCardID       string
	Amount         shared.Money
	Description    string
	OwnerID        string // 非空時要求為轉出卡的持卡人
	IdempotencyKey string
}

// TransferResult 轉帳結果
type TransferResult struct {
	TransferID     string             `json:"transfer_id"`
	FromCard       *CardResult        `json:"from_card"`
	ToCard         *CardResult        `json:"to_card"`
	OutTransaction *TransactionResult `json:"out_transaction"`
	InTransaction  *TransactionResult `json:"in_transaction"`
}

// TransferUseCase 卡對卡轉帳
//
// transfer_out / transfer_in 兩筆交易共用同一個 TransferID，
// 與兩張卡的餘額變更在同一個事務中提交。
type TransferUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewTransferUseCase 創建 Use Case 實例
func NewTransferUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *TransferUseCase {
	return &TransferUseCase{
		cards:        cards,
		transactions: transactions,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 轉帳
//
// 錯誤處理：
// - ErrSameCardTransfer: 轉出與轉入為同一張卡
// - ErrCardNotFound / ErrCardInactive: 任一張卡
// - ErrInsufficientBalance: 轉出卡餘額不足
// - ErrCardAccessDenied: OwnerID 不是轉出卡的持卡人
func (uc *TransferUseCase) Execute(ctx context.Context, cmd TransferCommand) (*TransferResult, error) {
	fromID, err := parseCardID(cmd.FromCardID)
	if err != nil {
		return nil, err
	}
	toID, err := parseCardID(cmd.ToCardID)
	if err != nil {
		return nil, err
	}
	if fromID.Equals(toID) {
		return nil, card.ErrSameCardTransfer.WithContext("card_id", fromID.String())
	}

	var (
		result *TransferResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationTransfer)
		if err != nil {
			return err
		}
		if replay {
			result, err = uc.replay(tx, resourceID)
			return err
		}

		from, err := findCard(tx, uc.cards, cmd.FromCardID, cmd.OwnerID)
		if err != nil {
			return err
		}
		to, err := uc.cards.FindByID(tx, toID)
		if err != nil {
			return fmt.Errorf("failed to find destination card: %w", err)
		}

		now := uc.clock.Now()
		transferID := card.NewTransferID()
		description := cmd.Description
		if description == "" {
			description = fmt.Sprintf("Transfer to %s", to.MaskedNumber())
		}
		out, err := from.TransferOut(cmd.Amount, transferID, to.CardID(), card.Operation{
			Reference:   uc.codes.TransactionReference(),
			Description: description,
			Now:         now,
		})
		if err != nil {
			return err
		}
		in, err := to.TransferIn(cmd.Amount, transferID, from.CardID(), card.Operation{
			Reference:   uc.codes.TransactionReference(),
			Description: fmt.Sprintf("Transfer from %s", from.MaskedNumber()),
			Now:         now,
		})
		if err != nil {
			return err
		}

		if err := uc.cards.Update(tx, from); err != nil {
			return fmt.Errorf("failed to update source card: %w", err)
		}
		if err := uc.cards.Update(tx, to); err != nil {
			return fmt.Errorf("failed to update destination card: %w", err)
		}
		for _, t := range []*card.Transaction{out, in} {
			if err := uc.transactions.Save(tx, t); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}
		}
		events.Collect(from, to)

		result = &TransferResult{
			TransferID:     transferID.String(),
			FromCard:       toCardResult(from, now),
			ToCard:         toCardResult(to, now),
			OutTransaction: toTransactionResult(out),
			InTransaction:  toTransactionResult(in),
		}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationTransfer, transferID.String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationTransfer, events.Events())
	return result, nil
}

// replay 依 transferID 找回轉帳對
func (uc *TransferUseCase) replay(tx shared.TransactionContext, transferID string) (*TransferResult, error) {
	pair, err := uc.transactions.FindByRelatedID(tx, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transfer transactions: %w", err)
	}

	now := uc.clock.Now()
	result := &TransferResult{TransferID: transferID}
	for _, t := range pair {
		c, err := uc.cards.FindByID(tx, t.CardID())
		if err != nil {
			return nil, fmt.Errorf("failed to find card: %w", err)
		}
		switch t.Type() {
		case card.TypeTransferOut:
			result.FromCard = toCardResult(c, now)
			result.OutTransaction = toTransactionResult(t)
		case card.TypeTransferIn:
			result.ToCard = toCardResult(c, now)
			result.InTransaction = toTransactionResult(t)
		}
	}
	if result.OutTransaction == nil || result.InTransaction == nil {
		return nil, card.ErrTransactionNotFound.WithContext("transfer_id", transferID)
	}
	return result, nil
}
