package card

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// TransactionType 交易類型
type TransactionType string

// 交易類型
const (
	TypeLoad        TransactionType = "load"
	TypePayment     TransactionType = "payment"
	TypeRefund      TransactionType = "refund"
	TypeTransferIn  TransactionType = "transfer_in"
	TypeTransferOut TransactionType = "transfer_out"
	TypeAdjustment  TransactionType = "adjustment"
)

// ParseTransactionType 解析交易類型
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypeLoad, TypePayment, TypeRefund, TypeTransferIn, TypeTransferOut, TypeAdjustment:
		return t, nil
	}
	return "", ErrInvalidTransactionType.WithContext("input", s)
}

// TransactionStatus 交易狀態
type TransactionStatus string

// 交易狀態
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusVoided    TransactionStatus = "voided"
)

// ===========================
// Transaction 卡片交易（審計記錄）
// ===========================

// Transaction 卡片交易
//
// 不變條件：
// - balanceAfter - balanceBefore == signedAmount()
// - 與餘額變更在同一事務中建立
// - 建立後唯一允許的變更是作廢（completed → voided），作廢後不可再修改
type Transaction struct {
	transactionID TransactionID
	cardID        CardID
	userID        shared.UserID // 卡片持有人
	cashierID     shared.UserID // 操作的收銀員（可為空）

	txType        TransactionType
	amount        shared.Money // 正數，方向由類型決定
	balanceBefore shared.Money
	balanceAfter  shared.Money
	pointsEarned  int

	status      TransactionStatus
	reference   string
	description string
	details     Details

	voidedAt   *time.Time
	voidedBy   shared.UserID
	voidReason string

	createdAt time.Time
	updatedAt time.Time
}

// Operation 卡片操作的共用參數
type Operation struct {
	Reference   string        // 交易參考號（CodeGenerator 生成）
	CashierID   shared.UserID // 可為空
	Description string
	Now         time.Time
}

func newTransaction(
	c *Card,
	txType TransactionType,
	amount shared.Money,
	before shared.Money,
	details Details,
	op Operation,
) *Transaction {
	tx := &Transaction{
		transactionID: NewTransactionID(),
		cardID:        c.cardID,
		userID:        c.ownerID,
		cashierID:     op.CashierID,
		txType:        txType,
		amount:        amount,
		balanceBefore: before,
		balanceAfter:  c.balance,
		status:        StatusCompleted,
		reference:     op.Reference,
		description:   op.Description,
		details:       details,
		createdAt:     op.Now,
		updatedAt:     op.Now,
	}
	return tx
}

// TransactionSnapshot 重建 Transaction 所需欄位（僅供 Repository 使用）
type TransactionSnapshot struct {
	TransactionID TransactionID
	CardID        CardID
	UserID        shared.UserID
	CashierID     shared.UserID
	Type          TransactionType
	Amount        shared.Money
	BalanceBefore shared.Money
	BalanceAfter  shared.Money
	PointsEarned  int
	Status        TransactionStatus
	Reference     string
	Description   string
	Details       Details
	VoidedAt      *time.Time
	VoidedBy      shared.UserID
	VoidReason    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReconstructTransaction 從持久化存儲重建交易，驗證餘額差額不變條件
func ReconstructTransaction(s TransactionSnapshot) (*Transaction, error) {
	if s.TransactionID.IsEmpty() {
		return nil, ErrInvalidTransactionID.WithContext("reason", "invalid transaction ID in database")
	}
	if _, err := ParseTransactionType(string(s.Type)); err != nil {
		return nil, err
	}
	if s.Details == nil || !detailsMatch(s.Type, s.Details) {
		return nil, ErrInvalidDetails.WithContext("transaction_id", s.TransactionID.String(), "type", string(s.Type))
	}

	tx := &Transaction{
		transactionID: s.TransactionID,
		cardID:        s.CardID,
		userID:        s.UserID,
		cashierID:     s.CashierID,
		txType:        s.Type,
		amount:        s.Amount,
		balanceBefore: s.BalanceBefore,
		balanceAfter:  s.BalanceAfter,
		pointsEarned:  s.PointsEarned,
		status:        s.Status,
		reference:     s.Reference,
		description:   s.Description,
		details:       s.Details,
		voidedAt:      s.VoidedAt,
		voidedBy:      s.VoidedBy,
		voidReason:    s.VoidReason,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
	if !tx.BalanceConsistent() {
		return nil, ErrCorruptedTransaction.WithContext(
			"transaction_id", s.TransactionID.String(),
			"amount", s.Amount.String(),
			"balance_before", s.BalanceBefore.String(),
			"balance_after", s.BalanceAfter.String(),
		)
	}
	return tx, nil
}

// ===========================
// 查詢方法
// ===========================

// TransactionID 交易 ID
func (t *Transaction) TransactionID() TransactionID { return t.transactionID }

// CardID 卡片 ID
func (t *Transaction) CardID() CardID { return t.cardID }

// UserID 卡片持有人
func (t *Transaction) UserID() shared.UserID { return t.userID }

// CashierID 收銀員
func (t *Transaction) CashierID() shared.UserID { return t.cashierID }

// Type 交易類型
func (t *Transaction) Type() TransactionType { return t.txType }

// Amount 金額（正數）
func (t *Transaction) Amount() shared.Money { return t.amount }

// BalanceBefore 交易前餘額
func (t *Transaction) BalanceBefore() shared.Money { return t.balanceBefore }

// BalanceAfter 交易後餘額
func (t *Transaction) BalanceAfter() shared.Money { return t.balanceAfter }

// PointsEarned 此交易獲得的積分
func (t *Transaction) PointsEarned() int { return t.pointsEarned }

// Status 狀態
func (t *Transaction) Status() TransactionStatus { return t.status }

// Reference 交易參考號
func (t *Transaction) Reference() string { return t.reference }

// Description 描述
func (t *Transaction) Description() string { return t.description }

// Details 明細
func (t *Transaction) Details() Details { return t.details }

// VoidedAt 作廢時間
func (t *Transaction) VoidedAt() *time.Time { return t.voidedAt }

// VoidedBy 作廢操作人
func (t *Transaction) VoidedBy() shared.UserID { return t.voidedBy }

// VoidReason 作廢原因
func (t *Transaction) VoidReason() string { return t.voidReason }

// CreatedAt 建立時間
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt 最後更新時間
func (t *Transaction) UpdatedAt() time.Time { return t.updatedAt }

// IsVoided 是否已作廢
func (t *Transaction) IsVoided() bool { return t.status == StatusVoided }

// IsCredit 是否為入帳方向
func (t *Transaction) IsCredit() bool {
	switch t.txType {
	case TypeLoad, TypeRefund, TypeTransferIn:
		return true
	case TypeAdjustment:
		if d, ok := t.details.(AdjustmentDetails); ok {
			return d.Credit
		}
	}
	return false
}

// BalanceConsistent balanceAfter - balanceBefore == 有號金額
func (t *Transaction) BalanceConsistent() bool {
	if t.IsCredit() {
		return t.balanceBefore.Add(t.amount).Equals(t.balanceAfter)
	}
	expected, ok := t.balanceBefore.Sub(t.amount)
	return ok && expected.Equals(t.balanceAfter)
}

// RelatedID 關聯 ID：轉帳為 transferID，退款為原交易 ID，其他為空
func (t *Transaction) RelatedID() string {
	switch d := t.details.(type) {
	case TransferDetails:
		return d.TransferID.String()
	case RefundDetails:
		return d.OriginalTransactionID.String()
	}
	return ""
}

// ===========================
// 命令方法
// ===========================

// RecordPointsEarned 記錄儲值獲得的積分（交易寫入前設定）
func (t *Transaction) RecordPointsEarned(points int) {
	t.pointsEarned = points
}

// Void 作廢交易（只做審計標記，不回沖餘額）
func (t *Transaction) Void(reason string, voidedBy shared.UserID, now time.Time) error {
	if t.IsVoided() {
		return ErrTransactionAlreadyVoided.WithContext(
			"transaction_id", t.transactionID.String(),
			"voided_at", t.voidedAt,
		)
	}

	voidedAt := now
	t.status = StatusVoided
	t.voidedAt = &voidedAt
	t.voidedBy = voidedBy
	t.voidReason = reason
	t.updatedAt = now
	return nil
}

// CheckRefundable 只有已完成的付款交易可以退款
func (t *Transaction) CheckRefundable() error {
	if t.txType != TypePayment || t.status != StatusCompleted {
		return ErrNotRefundable.WithContext(
			"transaction_id", t.transactionID.String(),
			"type", string(t.txType),
			"status", string(t.status),
		)
	}
	return nil
}
