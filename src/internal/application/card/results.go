package card

import (
	"fmt"
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// CardResult 禮品卡快照
type CardResult struct {
	CardID           string     `json:"card_id"`
	OwnerID          string     `json:"owner_id"`
	CardNumber       string     `json:"card_number"`
	MaskedNumber     string     `json:"masked_number"`
	Currency         string     `json:"currency"`
	Balance          string     `json:"balance"`
	DailyLoadLimit   string     `json:"daily_load_limit"`
	DailyLoadedToday string     `json:"daily_loaded_today"`
	IsActive         bool       `json:"is_active"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toCardResult(c *card.Card, now time.Time) *CardResult {
	return &CardResult{
		CardID:           c.CardID().String(),
		OwnerID:          c.OwnerID().String(),
		CardNumber:       c.CardNumber(),
		MaskedNumber:     c.MaskedNumber(),
		Currency:         c.Currency(),
		Balance:          c.Balance().String(),
		DailyLoadLimit:   c.DailyLoadLimit().String(),
		DailyLoadedToday: c.LoadedOn(now).String(),
		IsActive:         c.IsActive(),
		ActivatedAt:      c.ActivatedAt(),
		LastUsedAt:       c.LastUsedAt(),
		CreatedAt:        c.CreatedAt(),
	}
}

// TransactionResult 卡片交易
type TransactionResult struct {
	TransactionID string                 `json:"transaction_id"`
	CardID        string                 `json:"card_id"`
	Type          string                 `json:"type"`
	Amount        string                 `json:"amount"`
	BalanceBefore string                 `json:"balance_before"`
	BalanceAfter  string                 `json:"balance_after"`
	PointsEarned  int                    `json:"points_earned"`
	Status        string                 `json:"status"`
	Reference     string                 `json:"reference"`
	Description   string                 `json:"description,omitempty"`
	CashierID     string                 `json:"cashier_id,omitempty"`
	RelatedID     string                 `json:"related_id,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	VoidedAt      *time.Time             `json:"voided_at,omitempty"`
	VoidedBy      string                 `json:"voided_by,omitempty"`
	VoidReason    string                 `json:"void_reason,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func toTransactionResult(tx *card.Transaction) *TransactionResult {
	return &TransactionResult{
		TransactionID: tx.TransactionID().String(),
		CardID:        tx.CardID().String(),
		Type:          string(tx.Type()),
		Amount:        tx.Amount().String(),
		BalanceBefore: tx.BalanceBefore().String(),
		BalanceAfter:  tx.BalanceAfter().String(),
		PointsEarned:  tx.PointsEarned(),
		Status:        string(tx.Status()),
		Reference:     tx.Reference(),
		Description:   tx.Description(),
		CashierID:     tx.CashierID().String(),
		RelatedID:     tx.RelatedID(),
		Details:       detailsMap(tx.Details()),
		VoidedAt:      tx.VoidedAt(),
		VoidedBy:      tx.VoidedBy().String(),
		VoidReason:    tx.VoidReason(),
		CreatedAt:     tx.CreatedAt(),
	}
}

// detailsMap 將交易明細轉為 JSON 友善的結構
func detailsMap(d card.Details) map[string]interface{} {
	switch v := d.(type) {
	case card.LoadDetails:
		return map[string]interface{}{"method": v.Method}
	case card.PaymentDetails:
		items := make([]map[string]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, map[string]interface{}{
				"name":       item.Name,
				"quantity":   item.Quantity,
				"unit_price": item.UnitPrice.String(),
			})
		}
		return map[string]interface{}{"items": items}
	case card.TransferDetails:
		return map[string]interface{}{
			"transfer_id":          v.TransferID.String(),
			"counterparty_card_id": v.CounterpartyCardID.String(),
		}
	case card.RefundDetails:
		return map[string]interface{}{"original_transaction_id": v.OriginalTransactionID.String()}
	case card.AdjustmentDetails:
		return map[string]interface{}{"credit": v.Credit, "reason": v.Reason}
	}
	return nil
}

// ===========================
// 共用輔助函數
// ===========================

func parseCardID(raw string) (card.CardID, error) {
	id, err := card.CardIDFromString(raw)
	if err != nil {
		return card.CardID{}, fmt.Errorf("failed to parse card ID: %w", err)
	}
	return id, nil
}

// optionalUserID 解析可為空的用戶 ID（收銀員、操作人）
func optionalUserID(raw string) (shared.UserID, error) {
	if raw == "" {
		return shared.UserID{}, nil
	}
	id, err := shared.UserIDFromString(raw)
	if err != nil {
		return shared.UserID{}, fmt.Errorf("failed to parse user ID: %w", err)
	}
	return id, nil
}

// findCard 查找卡片；ownerID 非空時要求為持卡人
func findCard(tx shared.TransactionContext, cards card.CardRepository, rawCardID, ownerID string) (*card.Card, error) {
	cardID, err := parseCardID(rawCardID)
	if err != nil {
		return nil, err
	}
	c, err := cards.FindByID(tx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	if err := checkOwner(c, ownerID); err != nil {
		return nil, err
	}
	return c, nil
}

func checkOwner(c *card.Card, ownerID string) error {
	if ownerID == "" || c.OwnerID().String() == ownerID {
		return nil
	}
	return card.ErrCardAccessDenied.WithContext("card_id", c.CardID().String())
}

func findTransaction(tx shared.TransactionContext, transactions card.TransactionRepository, rawID string) (*card.Transaction, error) {
	id, err := card.TransactionIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction ID: %w", err)
	}
	t, err := transactions.FindByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return t, nil
}
