package persistence

import (
	"time"

	"gorm.io/datatypes"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// Card ↔ CardModel
// ===========================

func cardToDomain(model *CardModel) (*card.Card, error) {
	cardID, err := card.CardIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := shared.UserIDFromString(model.OwnerID)
	if err != nil {
		return nil, err
	}

	balance, err := moneyColumn(model.Balance, "balance", model.ID)
	if err != nil {
		return nil, err
	}
	limit, err := moneyColumn(model.DailyLoadLimit, "daily_load_limit", model.ID)
	if err != nil {
		return nil, err
	}
	loaded, err := moneyColumn(model.DailyLoadedToday, "daily_loaded_today", model.ID)
	if err != nil {
		return nil, err
	}

	return card.ReconstructCard(card.CardSnapshot{
		CardID:            cardID,
		OwnerID:           ownerID,
		CardNumber:        model.CardNumber,
		Currency:          model.Currency,
		Balance:           balance,
		DailyLoadLimit:    limit,
		DailyLoadedToday:  loaded,
		LastLoadResetDate: model.LastLoadResetDate,
		IsActive:          model.IsActive,
		ActivatedAt:       model.ActivatedAt,
		LastUsedAt:        model.LastUsedAt,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func cardToGORM(c *card.Card) *CardModel {
	return &CardModel{
		ID:                c.CardID().String(),
		OwnerID:           c.OwnerID().String(),
		CardNumber:        c.CardNumber(),
		Currency:          c.Currency(),
		Balance:           c.Balance().Minor(),
		DailyLoadLimit:    c.DailyLoadLimit().Minor(),
		DailyLoadedToday:  c.DailyLoadedToday().Minor(),
		LastLoadResetDate: c.LastLoadResetDate(),
		IsActive:          c.IsActive(),
		ActivatedAt:       utcPtr(c.ActivatedAt()),
		LastUsedAt:        utcPtr(c.LastUsedAt()),
		Version:           c.Version(),
		CreatedAt:         c.CreatedAt().UTC(),
		UpdatedAt:         c.UpdatedAt().UTC(),
	}
}

// ===========================
// Transaction ↔ CardTransactionModel
// ===========================

func transactionToDomain(model *CardTransactionModel) (*card.Transaction, error) {
	txID, err := card.TransactionIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	cardID, err := card.CardIDFromString(model.CardID)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(model.UserID)
	if err != nil {
		return nil, err
	}
	cashierID, err := optionalUserID(model.CashierID)
	if err != nil {
		return nil, err
	}
	voidedBy, err := optionalUserID(model.VoidedBy)
	if err != nil {
		return nil, err
	}

	txType, err := card.ParseTransactionType(model.Type)
	if err != nil {
		return nil, err
	}
	details, err := detailsToDomain(txType, model.Details.Data())
	if err != nil {
		return nil, card.ErrInvalidDetails.WithContext("transaction_id", model.ID, "reason", err.Error())
	}

	amount, err := moneyColumn(model.Amount, "amount", model.ID)
	if err != nil {
		return nil, err
	}
	before, err := moneyColumn(model.BalanceBefore, "balance_before", model.ID)
	if err != nil {
		return nil, err
	}
	after, err := moneyColumn(model.BalanceAfter, "balance_after", model.ID)
	if err != nil {
		return nil, err
	}

	return card.ReconstructTransaction(card.TransactionSnapshot{
		TransactionID: txID,
		CardID:        cardID,
		UserID:        userID,
		CashierID:     cashierID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		PointsEarned:  model.PointsEarned,
		Status:        card.TransactionStatus(model.Status),
		Reference:     model.Reference,
		Description:   model.Description,
		Details:       details,
		VoidedAt:      model.VoidedAt,
		VoidedBy:      voidedBy,
		VoidReason:    model.VoidReason,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}

func transactionToGORM(tx *card.Transaction) *CardTransactionModel {
	model := &CardTransactionModel{
		ID:            tx.TransactionID().String(),
		CardID:        tx.CardID().String(),
		UserID:        tx.UserID().String(),
		CashierID:     tx.CashierID().String(),
		Type:          string(tx.Type()),
		Amount:        tx.Amount().Minor(),
		BalanceBefore: tx.BalanceBefore().Minor(),
		BalanceAfter:  tx.BalanceAfter().Minor(),
		PointsEarned:  tx.PointsEarned(),
		Status:        string(tx.Status()),
		Reference:     tx.Reference(),
		Description:   tx.Description(),
		Details:       datatypes.NewJSONType(detailsToRecord(tx.Details())),
		RelatedID:     tx.RelatedID(),
		VoidedAt:      utcPtr(tx.VoidedAt()),
		VoidedBy:      tx.VoidedBy().String(),
		VoidReason:    tx.VoidReason(),
		CreatedAt:     tx.CreatedAt().UTC(),
		UpdatedAt:     tx.UpdatedAt().UTC(),
	}
	if tx.Type() == card.TypeRefund {
		original := tx.RelatedID()
		model.RefundOf = &original
	}
	return model
}

func detailsToRecord(d card.Details) detailsRecord {
	switch v := d.(type) {
	case card.LoadDetails:
		return detailsRecord{Method: v.Method}
	case card.PaymentDetails:
		items := make([]paymentItemRecord, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, paymentItemRecord{
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice.Minor(),
			})
		}
		return detailsRecord{Items: items}
	case card.TransferDetails:
		return detailsRecord{
			TransferID:         v.TransferID.String(),
			CounterpartyCardID: v.CounterpartyCardID.String(),
		}
	case card.RefundDetails:
		return detailsRecord{OriginalTransactionID: v.OriginalTransactionID.String()}
	case card.AdjustmentDetails:
		return detailsRecord{Credit: v.Credit, Reason: v.Reason}
	}
	return detailsRecord{}
}

func detailsToDomain(t card.TransactionType, rec detailsRecord) (card.Details, error) {
	switch t {
	case card.TypeLoad:
		return card.LoadDetails{Method: rec.Method}, nil
	case card.TypePayment:
		items := make([]card.PaymentItem, 0, len(rec.Items))
		for _, item := range rec.Items {
			price, err := shared.MoneyFromMinor(item.UnitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, card.PaymentItem{Name: item.Name, Quantity: item.Quantity, UnitPrice: price})
		}
		return card.PaymentDetails{Items: items}, nil
	case card.TypeTransferIn, card.TypeTransferOut:
		transferID, err := card.TransferIDFromString(rec.TransferID)
		if err != nil {
			return nil, err
		}
		counterparty, err := card.CardIDFromString(rec.CounterpartyCardID)
		if err != nil {
			return nil, err
		}
		return card.TransferDetails{TransferID: transferID, CounterpartyCardID: counterparty}, nil
	case card.TypeRefund:
		original, err := card.TransactionIDFromString(rec.OriginalTransactionID)
		if err != nil {
			return nil, err
		}
		return card.RefundDetails{OriginalTransactionID: original}, nil
	case card.TypeAdjustment:
		return card.AdjustmentDetails{Credit: rec.Credit, Reason: rec.Reason}, nil
	}
	return nil, card.ErrInvalidTransactionType.WithContext("input", string(t))
}

// ===========================
// 共用輔助
// ===========================

func moneyColumn(minor int64, column, id string) (shared.Money, error) {
	m, err := shared.MoneyFromMinor(minor)
	if err != nil {
		return shared.Money{}, shared.ErrRepositoryError.WithContext(
			"id", id,
			"column", column,
			"value", minor,
			"reason", "negative amount in database",
		)
	}
	return m, nil
}

func optionalUserID(s string) (shared.UserID, error) {
	if s == "" {
		return shared.UserID{}, nil
	}
	return shared.UserIDFromString(s)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
