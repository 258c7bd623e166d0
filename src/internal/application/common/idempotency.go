// Package common 應用層共用元件（冪等鍵、事件派發、分頁）
package common

import (
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// IdempotencyGuard
// ===========================

// IdempotencyGuard 在 Use Case 事務中檢查與記錄冪等鍵
//
// 使用方式（同一個 TransactionContext）：
//
//	resourceID, replay, err := guard.Lookup(tx, key, "card.load")
//	if replay { 依 resourceID 重建第一次的結果 }
//	... 帳本變更 ...
//	guard.Remember(tx, key, "card.load", transaction.TransactionID().String())
//
// 兩個並發請求同時通過 Lookup 時，後提交者在 Remember 撞到唯一索引，
// 返回 shared.ErrDuplicateRequest，整個事務回滾。
type IdempotencyGuard struct {
	repo  shared.IdempotencyRepository
	clock shared.Clock
}

// NewIdempotencyGuard 建構函數
func NewIdempotencyGuard(repo shared.IdempotencyRepository, clock shared.Clock) *IdempotencyGuard {
	return &IdempotencyGuard{repo: repo, clock: clock}
}

// Lookup 查找已處理的請求
//
// key 為空時不使用冪等保護，返回 ("", false, nil)。
// 同一個 key 被用於不同操作時返回 ErrDuplicateRequest。
func (g *IdempotencyGuard) Lookup(tx shared.TransactionContext, key, operation string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}

	record, err := g.repo.Find(tx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to find idempotency key: %w", err)
	}
	if record == nil {
		return "", false, nil
	}
	if record.Operation != operation {
		return "", false, shared.ErrDuplicateRequest.WithContext(
			"key", key,
			"operation", operation,
			"recorded_operation", record.Operation,
		)
	}
	return record.ResourceID, true, nil
}

// Remember 記錄本次請求產生的資源；必須在提交前調用
func (g *IdempotencyGuard) Remember(tx shared.TransactionContext, key, operation, resourceID string) error {
	if key == "" {
		return nil
	}

	err := g.repo.Save(tx, shared.IdempotencyRecord{
		Key:        key,
		Operation:  operation,
		ResourceID: resourceID,
		CreatedAt:  g.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}
