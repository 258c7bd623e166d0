package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// 冪等鍵記錄的操作名稱
const (
	OperationIssueCard  = "card.issue"
	OperationLoadCard   = "card.load"
	OperationDeductCard = "card.deduct"
	OperationTransfer   = "card.transfer"
	OperationVoid       = "card.void"
	OperationRefund     = "card.refund"
	OperationCardStatus = "card.status"
)

// Policy 卡片業務參數（來自配置）
type Policy struct {
	DefaultDailyLoadLimit shared.Money
}

// ===========================
// IssueCard Use Case
// ===========================

// IssueCardCommand 發卡命令
type IssueCardCommand struct {
	OwnerID        string
	InitialBalance shared.Money // 可為 0
	DailyLoadLimit shared.Money // 0 表示使用配置的預設值
	CashierID      string
	IdempotencyKey string
}

// IssueCardResult 發卡結果
type IssueCardResult struct {
	Card               *CardResult        `json:"card"`
	InitialTransaction *TransactionResult `json:"initial_transaction,omitempty"`
}

// IssueCardUseCase 發卡 Use Case
//
// 初始餘額記為一筆 load 交易（method=initial），不計入每日額度，也不產生積分。
type IssueCardUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	codes        shared.CodeGenerator
	idempotency  *common.IdempotencyGuard
	txManager    shared.TransactionManager
	dispatcher   *common.EventDispatcher
	clock        shared.Clock
	policy       Policy
}

// NewIssueCardUseCase 創建 Use Case 實例
func NewIssueCardUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	codes shared.CodeGenerator,
	idempotency *common.IdempotencyGuard,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
	policy Policy,
) *IssueCardUseCase {
	return &IssueCardUseCase{
		cards:        cards,
		transactions: transactions,
		codes:        codes,
		idempotency:  idempotency,
		txManager:    txManager,
		dispatcher:   dispatcher,
		clock:        clock,
		policy:       policy,
	}
}

// Execute 發卡
func (uc *IssueCardUseCase) Execute(ctx context.Context, cmd IssueCardCommand) (*IssueCardResult, error) {
	ownerID, err := shared.UserIDFromString(cmd.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse owner ID: %w", err)
	}
	cashierID, err := optionalUserID(cmd.CashierID)
	if err != nil {
		return nil, err
	}
	limit := cmd.DailyLoadLimit
	if limit.IsZero() {
		limit = uc.policy.DefaultDailyLoadLimit
	}

	var (
		result *IssueCardResult
		events common.EventBuffer
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		resourceID, replay, err := uc.idempotency.Lookup(tx, cmd.IdempotencyKey, OperationIssueCard)
		if err != nil {
			return err
		}
		if replay {
			c, err := findCard(tx, uc.cards, resourceID, "")
			if err != nil {
				return err
			}
			result = &IssueCardResult{Card: toCardResult(c, uc.clock.Now())}
			return nil
		}

		now := uc.clock.Now()
		c, err := card.NewCard(ownerID, uc.codes.CardNumber(), limit, now)
		if err != nil {
			return err
		}
		result = &IssueCardResult{}

		var initial *card.Transaction
		if !cmd.InitialBalance.IsZero() {
			initial, err = c.SeedInitialBalance(cmd.InitialBalance, card.Operation{
				Reference:   uc.codes.TransactionReference(),
				CashierID:   cashierID,
				Description: "Initial balance",
				Now:         now,
			})
			if err != nil {
				return err
			}
		}

		if err := uc.cards.Save(tx, c); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
		if initial != nil {
			if err := uc.transactions.Save(tx, initial); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}
			result.InitialTransaction = toTransactionResult(initial)
		}

		events.Collect(c)
		result.Card = toCardResult(c, now)
		return uc.idempotency.Remember(tx, cmd.IdempotencyKey, OperationIssueCard, c.CardID().String())
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationIssueCard, events.Events())
	return result, nil
}
