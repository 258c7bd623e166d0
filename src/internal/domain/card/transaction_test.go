package card_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

func snapshot(txType card.TransactionType, amount, before, after string, details card.Details) card.TransactionSnapshot {
	return card.TransactionSnapshot{
		TransactionID: card.NewTransactionID(),
		CardID:        card.NewCardID(),
		UserID:        shared.NewUserID(),
		Type:          txType,
		Amount:        shared.MustMoney(amount),
		BalanceBefore: shared.MustMoney(before),
		BalanceAfter:  shared.MustMoney(after),
		Status:        card.StatusCompleted,
		Reference:     "TXN1",
		Details:       details,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

// Test 1: 作廢只能一次，且不影響金額
func TestTransaction_Void_Once(t *testing.T) {
	tx, err := card.ReconstructTransaction(snapshot(card.TypePayment, "10", "30", "20", card.PaymentDetails{}))
	require.NoError(t, err)
	cashier := shared.NewUserID()

	require.NoError(t, tx.Void("wrong item", cashier, testNow))
	assert.True(t, tx.IsVoided())
	assert.Equal(t, cashier, tx.VoidedBy())
	assert.Equal(t, "wrong item", tx.VoidReason())
	assert.Equal(t, "20.00", tx.BalanceAfter().String())

	err = tx.Void("again", cashier, testNow)
	assert.ErrorIs(t, err, card.ErrTransactionAlreadyVoided)
	assert.Equal(t, "wrong item", tx.VoidReason())
}

// Test 2: 已作廢的付款不能退款
func TestTransaction_CheckRefundable_Voided(t *testing.T) {
	tx, err := card.ReconstructTransaction(snapshot(card.TypePayment, "10", "30", "20", card.PaymentDetails{}))
	require.NoError(t, err)
	require.NoError(t, tx.Void("", shared.NewUserID(), testNow))

	assert.ErrorIs(t, tx.CheckRefundable(), card.ErrNotRefundable)
}

// Test 3: 重建時檢查餘額差額不變條件
func TestReconstructTransaction_BalanceInvariant(t *testing.T) {
	tests := []struct {
		name    string
		snap    card.TransactionSnapshot
		wantErr error
	}{
		{"load 正確", snapshot(card.TypeLoad, "10", "0", "10", card.LoadDetails{Method: "cash"}), nil},
		{"load 差額錯誤", snapshot(card.TypeLoad, "10", "0", "9", card.LoadDetails{Method: "cash"}), card.ErrCorruptedTransaction},
		{"payment 正確", snapshot(card.TypePayment, "5", "10", "5", card.PaymentDetails{}), nil},
		{"adjustment 加值", snapshot(card.TypeAdjustment, "5", "10", "15", card.AdjustmentDetails{Credit: true}), nil},
		{"adjustment 扣減", snapshot(card.TypeAdjustment, "5", "10", "5", card.AdjustmentDetails{Credit: false}), nil},
		{"明細類型不符", snapshot(card.TypeLoad, "10", "0", "10", card.PaymentDetails{}), card.ErrInvalidDetails},
		{"缺少明細", snapshot(card.TypeLoad, "10", "0", "10", nil), card.ErrInvalidDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := card.ReconstructTransaction(tt.snap)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// Test 4: 交易類型解析
func TestParseTransactionType(t *testing.T) {
	got, err := card.ParseTransactionType("transfer_in")
	require.NoError(t, err)
	assert.Equal(t, card.TypeTransferIn, got)

	_, err = card.ParseTransactionType("withdrawal")
	assert.ErrorIs(t, err, card.ErrInvalidTransactionType)
}
