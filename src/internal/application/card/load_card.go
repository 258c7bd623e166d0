package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// LoadCard Use Case
// ===========================

// LoadCardCommand 儲值命令
type LoadCardCommand struct {
	CardID         string
	Amount         shared.Money
	Method         string // cash / card / bank_transfer；空字串為 cash
	Description    string
	CashierID      string
	IdempotencyKey string
}

// LoadCardResult 儲值結果
type LoadCardResult struct {
	Card         *CardResult        `json:"card"`
	Transaction  *TransactionResult `json:"transaction"`
	PointsEarned int                `json:"points_earned"`
}

// LoadCardUseCase 儲值 Use Case
//
// 同一個資料庫事務內：
// 1. 卡片餘額與每日額度更新
// 2. 持卡人依儲值金額獲得積分（AwardPointsUseCase.ExecuteWithContext）
// 3. 寫入 load 交易（含 pointsEarned）
type LoadCardUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	awardPoints  *pointsapp.AwardPointsUseCase
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
}

// NewLoadCardUseCase 創建 Use Case 實例
func NewLoadCardUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	awardPoints *pointsapp.AwardPointsUseCase,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *LoadCardUseCase {
	return &LoadCardUseCase{
		cards:        cards,
		transactions: transactions,
		awardPoints:  awardPoints,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
	}
}

// Execute 儲值
//
// 錯誤處理：
// - ErrCardNotFound / ErrCardInactive
// - ErrDailyLimitExceeded: 超過當日儲值上限（不變更任何狀態）
// - shared.ErrInvalidAmount: 金額 <= 0
// - points.ErrAccountInactive: 持卡人的積分帳戶已停用，整筆儲值回滾
func (uc *LoadCardUseCase) Execute(ctx context.Context, cmd LoadCardCommand) (*LoadCardResult, error) {
	cashierID, err := optionalUserID(cmd.CashierID)
	if err != nil {
		return nil, err
	}

	var (
		result *LoadCardResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationLoadCard)
		if err != nil {
			return err
		}
		if replay {
			result, err = uc.replay(tx, resourceID)
			return err
		}

		c, err := findCard(tx, uc.cards, cmd.CardID, "")
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		transaction, err := c.Load(cmd.Amount, cmd.Method, card.Operation{
			Reference:   uc.codes.TransactionReference(),
			CashierID:   cashierID,
			Description: cmd.Description,
			Now:         now,
		})
		if err != nil {
			return err
		}

		award, err := uc.awardPoints.ExecuteWithContext(tx, pointsapp.AwardPointsCommand{
			UserID:      c.OwnerID().String(),
			Amount:      cmd.Amount,
			ReferenceID: transaction.TransactionID().String(),
		}, &events)
		if err != nil {
			return fmt.Errorf("failed to award points: %w", err)
		}
		transaction.RecordPointsEarned(award.PointsAwarded)

		if err := uc.cards.Update(tx, c); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := uc.transactions.Save(tx, transaction); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		events.Collect(c)

		result = &LoadCardResult{
			Card:         toCardResult(c, now),
			Transaction:  toTransactionResult(transaction),
			PointsEarned: award.PointsAwarded,
		}
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationLoadCard, transaction.TransactionID().String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationLoadCard, events.Events())
	return result, nil
}

func (uc *LoadCardUseCase) replay(tx shared.TransactionContext, transactionID string) (*LoadCardResult, error) {
	transaction, c, err := replayTransaction(tx, uc.cards, uc.transactions, transactionID)
	if err != nil {
		return nil, err
	}
	return &LoadCardResult{
		Card:         toCardResult(c, uc.clock.Now()),
		Transaction:  toTransactionResult(transaction),
		PointsEarned: transaction.PointsEarned(),
	}, nil
}

// replayTransaction 重放：第一次寫入的交易與卡片目前狀態
func replayTransaction(
	tx shared.TransactionContext,
	cards card.CardRepository,
	transactions card.TransactionRepository,
	transactionID string,
) (*card.Transaction, *card.Card, error) {
	transaction, err := findTransaction(tx, transactions, transactionID)
	if err != nil {
		return nil, nil, err
	}
	c, err := cards.FindByID(tx, transaction.CardID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find card: %w", err)
	}
	return transaction, c, nil
}
