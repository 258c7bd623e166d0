package card

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// ===========================
// TransactionDetails 交易明細（tagged variant）
// ===========================

// Details 交易明細
//
// 每種交易類型對應一個明細類型，取代不透明的 metadata：
//
//	load                      → LoadDetails
//	payment                   → PaymentDetails
//	transfer_in/transfer_out  → TransferDetails
//	refund                    → RefundDetails
//	adjustment                → AdjustmentDetails
type Details interface {
	// Kind 明細所屬的交易類型（transfer 兩個方向共用 "transfer"）
	Kind() string
	details()
}

// Load methods
const (
	LoadMethodCash     = "cash"
	LoadMethodCard     = "card"
	LoadMethodTransfer = "bank_transfer"
	LoadMethodInitial  = "initial"
)

// LoadDetails 儲值明細
type LoadDetails struct {
	Method string
}

// PaymentItem 付款品項
type PaymentItem struct {
	Name      string
	Quantity  int
	UnitPrice shared.Money
}

// PaymentDetails 付款明細
type PaymentDetails struct {
	Items []PaymentItem
}

// TransferDetails 轉帳明細
type TransferDetails struct {
	TransferID         TransferID
	CounterpartyCardID CardID
}

// RefundDetails 退款明細
type RefundDetails struct {
	OriginalTransactionID TransactionID
}

// AdjustmentDetails 人工調整明細
type AdjustmentDetails struct {
	Credit bool // true 為加值，false 為扣減
	Reason string
}

// Kind 實現 Details
func (LoadDetails) Kind() string { return "load" }

// Kind 實現 Details
func (PaymentDetails) Kind() string { return "payment" }

// Kind 實現 Details
func (TransferDetails) Kind() string { return "transfer" }

// Kind 實現 Details
func (RefundDetails) Kind() string { return "refund" }

// Kind 實現 Details
func (AdjustmentDetails) Kind() string { return "adjustment" }

func (LoadDetails) details()       {}
func (PaymentDetails) details()    {}
func (TransferDetails) details()   {}
func (RefundDetails) details()     {}
func (AdjustmentDetails) details() {}

// detailsMatch 明細類型必須與交易類型一致
func detailsMatch(t TransactionType, d Details) bool {
	switch d.(type) {
	case LoadDetails:
		return t == TypeLoad
	case PaymentDetails:
		return t == TypePayment
	case TransferDetails:
		return t == TypeTransferIn || t == TypeTransferOut
	case RefundDetails:
		return t == TypeRefund
	case AdjustmentDetails:
		return t == TypeAdjustment
	}
	return false
}
