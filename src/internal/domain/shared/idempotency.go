package shared

import "time"

// IdempotencyRecord 冪等鍵記錄
//
// 與被保護的帳本變更在同一事務中寫入；
// 重試時根據 ResourceID 取回第一次執行的結果，而不是重複扣款/兌換。
type IdempotencyRecord struct {
	Key        string
	Operation  string
	ResourceID string
	CreatedAt  time.Time
}

// IdempotencyRepository 冪等鍵倉儲
type IdempotencyRepository interface {
	// Find 查找冪等鍵；不存在時返回 (nil, nil)
	Find(ctx TransactionContext, key string) (*IdempotencyRecord, error)

	// Save 寫入冪等鍵；鍵已存在時返回 ErrDuplicateRequest
	Save(ctx TransactionContext, record IdempotencyRecord) error
}
