package points

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// ===========================
// Account Repository 介面
// ===========================

// AccountRepository 積分帳戶倉儲介面
//
// 設計原則：
// 1. 依賴倒置原則（DIP）：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 事務支持：使用 TransactionContext 封裝事務，避免基礎設施洩漏
// 3. 樂觀鎖：Update 以 version 做條件更新，防止 lost update
type AccountRepository interface {
	// Save 保存新的積分帳戶
	// 錯誤：ErrAccountAlreadyExists（UserID 已有帳戶）
	Save(ctx shared.TransactionContext, account *Account) error

	// FindByID 返回 ErrAccountNotFound 若不存在
	FindByID(ctx shared.TransactionContext, accountID AccountID) (*Account, error)

	// FindByUserID 一個用戶對應一個積分帳戶（1:1）
	// 返回：ErrAccountNotFound 若不存在
	FindByUserID(ctx shared.TransactionContext, userID shared.UserID) (*Account, error)

	// Update 條件更新（WHERE version = account.Version()）
	// 錯誤：ErrAccountNotFound；shared.ErrConcurrentModification（版本不符）
	// 後置條件：成功時 account.Version() 加一
	Update(ctx shared.TransactionContext, account *Account) error
}

// ===========================
// PointHistory Repository 介面
// ===========================

// HistoryFilter 流水查詢條件
type HistoryFilter struct {
	UserID shared.UserID
	Type   HistoryType // 空字串表示不過濾
	Offset int
	Limit  int
}

// HistoryRepository 積分流水倉儲介面（只追加）
type HistoryRepository interface {
	// Append 追加一筆流水，必須與帳戶更新在同一事務中
	Append(ctx shared.TransactionContext, entry *PointHistory) error

	// FindByID 返回 ErrHistoryNotFound 若不存在（冪等重放用）
	FindByID(ctx shared.TransactionContext, id HistoryID) (*PointHistory, error)

	// List 按時間倒序分頁查詢，同時返回總筆數
	List(ctx shared.TransactionContext, filter HistoryFilter) ([]*PointHistory, int64, error)

	// SumByUser 用戶所有流水的 points 總和（對帳用）
	SumByUser(ctx shared.TransactionContext, userID shared.UserID) (int, error)
}
