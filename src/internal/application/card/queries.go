package card

import (
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// 查詢 Use Cases（不開事務，使用預設連線）
// ===========================

// CardQueryUseCase 卡片查詢
type CardQueryUseCase struct {
	cards        card.CardRepository
	transactions card.TransactionRepository
	clock        shared.Clock
}

// NewCardQueryUseCase 創建 Use Case 實例
func NewCardQueryUseCase(
	cards card.CardRepository,
	transactions card.TransactionRepository,
	clock shared.Clock,
) *CardQueryUseCase {
	return &CardQueryUseCase{cards: cards, transactions: transactions, clock: clock}
}

// GetCard 卡片詳情；ownerID 非空時要求為持卡人
func (uc *CardQueryUseCase) GetCard(cardID, ownerID string) (*CardResult, error) {
	c, err := findCard(nil, uc.cards, cardID, ownerID)
	if err != nil {
		return nil, err
	}
	return toCardResult(c, uc.clock.Now()), nil
}

// BalanceResult 餘額查詢（卡號遮罩）
type BalanceResult struct {
	CardID           string `json:"card_id"`
	MaskedNumber     string `json:"masked_number"`
	Balance          string `json:"balance"`
	Currency         string `json:"currency"`
	IsActive         bool   `json:"is_active"`
	DailyLoadLimit   string `json:"daily_load_limit"`
	DailyLoadedToday string `json:"daily_loaded_today"`
	DailyRemaining   string `json:"daily_remaining"`
}

// CheckBalanceQuery 以卡片 ID 或卡號查詢，至少提供其一
type CheckBalanceQuery struct {
	CardID     string
	CardNumber string
}

// CheckBalance 查詢餘額；不返回完整卡號
func (uc *CardQueryUseCase) CheckBalance(q CheckBalanceQuery) (*BalanceResult, error) {
	var (
		c   *card.Card
		err error
	)
	switch {
	case q.CardID != "":
		c, err = findCard(nil, uc.cards, q.CardID, "")
	case q.CardNumber != "":
		c, err = uc.cards.FindByNumber(nil, q.CardNumber)
		if err != nil {
			err = fmt.Errorf("failed to find card: %w", err)
		}
	default:
		return nil, card.ErrInvalidCardID.WithContext("reason", "card id or card number required")
	}
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	loaded := c.LoadedOn(now)
	remaining, ok := c.DailyLoadLimit().Sub(loaded)
	if !ok {
		remaining = shared.ZeroMoney()
	}
	return &BalanceResult{
		CardID:           c.CardID().String(),
		MaskedNumber:     c.MaskedNumber(),
		Balance:          c.Balance().String(),
		Currency:         c.Currency(),
		IsActive:         c.IsActive(),
		DailyLoadLimit:   c.DailyLoadLimit().String(),
		DailyLoadedToday: loaded.String(),
		DailyRemaining:   remaining.String(),
	}, nil
}

// ListUserCards 用戶的所有卡片
func (uc *CardQueryUseCase) ListUserCards(userID string) ([]*CardResult, error) {
	ownerID, err := shared.UserIDFromString(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	cards, err := uc.cards.ListByOwner(nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	now := uc.clock.Now()
	results := make([]*CardResult, 0, len(cards))
	for _, c := range cards {
		results = append(results, toCardResult(c, now))
	}
	return results, nil
}

// ListTransactionsQuery 交易列表查詢
type ListTransactionsQuery struct {
	CardID  string
	OwnerID string // 非空時要求為持卡人
	Type    string // 空字串表示全部
	Page    common.Page
}

// ListTransactionsResult 交易列表
type ListTransactionsResult struct {
	Items    []*TransactionResult `json:"items"`
	PageInfo common.PageInfo      `json:"page_info"`
}

// ListTransactions 按時間倒序分頁
func (uc *CardQueryUseCase) ListTransactions(q ListTransactionsQuery) (*ListTransactionsResult, error) {
	c, err := findCard(nil, uc.cards, q.CardID, q.OwnerID)
	if err != nil {
		return nil, err
	}

	filter := card.TransactionFilter{CardID: c.CardID()}
	if q.Type != "" {
		txType, err := card.ParseTransactionType(q.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = txType
	}
	page := q.Page.Normalize()
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	transactions, total, err := uc.transactions.List(nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	items := make([]*TransactionResult, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, toTransactionResult(t))
	}
	return &ListTransactionsResult{Items: items, PageInfo: common.NewPageInfo(page, total)}, nil
}

// GetTransaction 單筆交易
func (uc *CardQueryUseCase) GetTransaction(transactionID string) (*TransactionResult, error) {
	t, err := findTransaction(nil, uc.transactions, transactionID)
	if err != nil {
		return nil, err
	}
	return toTransactionResult(t), nil
}
