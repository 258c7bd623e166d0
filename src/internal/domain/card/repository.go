package card

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// CardRepository 禮品卡倉儲介面
type CardRepository interface {
	// Save 保存新卡；卡號重複返回 ErrCardNumberConflict
	Save(ctx shared.TransactionContext, card *Card) error

	// FindByID 返回 ErrCardNotFound 若不存在
	FindByID(ctx shared.TransactionContext, cardID CardID) (*Card, error)

	// FindByNumber 依卡號查找
	FindByNumber(ctx shared.TransactionContext, cardNumber string) (*Card, error)

	// ListByOwner 用戶的所有卡片（建立時間倒序）
	ListByOwner(ctx shared.TransactionContext, ownerID shared.UserID) ([]*Card, error)

	// Update 條件更新（WHERE version = card.Version()）
	// 錯誤：ErrCardNotFound；shared.ErrConcurrentModification
	Update(ctx shared.TransactionContext, card *Card) error
}

// TransactionFilter 交易查詢條件
type TransactionFilter struct {
	CardID CardID
	Type   TransactionType // 空字串表示不過濾
	Offset int
	Limit  int
}

// TransactionRepository 卡片交易倉儲介面
type TransactionRepository interface {
	// Save 寫入新交易；參考號重複返回 shared.ErrDuplicateRequest
	Save(ctx shared.TransactionContext, tx *Transaction) error

	// FindByID 返回 ErrTransactionNotFound 若不存在
	FindByID(ctx shared.TransactionContext, id TransactionID) (*Transaction, error)

	// MarkVoided 只允許 completed → voided（條件更新）；已作廢返回 ErrTransactionAlreadyVoided
	MarkVoided(ctx shared.TransactionContext, tx *Transaction) error

	// List 按時間倒序分頁查詢，同時返回總筆數
	List(ctx shared.TransactionContext, filter TransactionFilter) ([]*Transaction, int64, error)

	// FindByRelatedID 依關聯 ID 查找（轉帳對、退款）
	FindByRelatedID(ctx shared.TransactionContext, relatedID string) ([]*Transaction, error)
}
