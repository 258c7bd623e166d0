package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文實作
// 設計原則：
// 1. 實作 shared.TransactionContext 介面（標記介面）
// 2. 封裝 *gorm.DB，避免洩漏到 Domain Layer
// 3. 提供 GetDB() 方法供 Infrastructure Layer 內部使用
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取 GORM DB 連接（僅供 Infrastructure Layer 內部使用）
// 注意：這個方法不在 shared.TransactionContext 介面中
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}

// resolveDB 從 TransactionContext 取得 *gorm.DB；nil 或非 GORM 上下文時使用預設連線
func resolveDB(ctx shared.TransactionContext, fallback *gorm.DB) *gorm.DB {
	if gormCtx, ok := ctx.(*gormTransactionContext); ok && gormCtx != nil {
		return gormCtx.GetDB()
	}
	return fallback
}

// ===========================
// GORMTransactionManager
// ===========================

// GORMTransactionManager shared.TransactionManager 的 GORM 實作
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 建構函數
func NewGORMTransactionManager(db *gorm.DB) *GORMTransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
//
// - fn 返回 error：回滾並原樣返回該錯誤
// - fn panic：回滾後重新 panic
// - fn 返回 nil：提交；提交失敗返回 ErrRepositoryError
func (m *GORMTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return shared.ErrRepositoryError.WithContext("database_error", tx.Error.Error(), "stage", "begin")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(NewGORMTransactionContext(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return shared.ErrRepositoryError.WithContext("database_error", err.Error(), "stage", "commit")
	}
	return nil
}
