package persistence

import (
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// GORM Repository 實作
// ===========================

// GORMAccountRepository 積分帳戶倉儲（GORM 實作）
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 建構函數
func NewAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{db: db}
}

var _ points.AccountRepository = (*GORMAccountRepository)(nil)

// Save 保存新的積分帳戶
// 錯誤：points.ErrAccountAlreadyExists（user_id 唯一約束）
func (r *GORMAccountRepository) Save(ctx shared.TransactionContext, account *points.Account) error {
	model := accountToGORM(account)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return mapError(err, nil, points.ErrAccountAlreadyExists)
	}
	return nil
}

// FindByID 根據帳戶 ID 查詢
func (r *GORMAccountRepository) FindByID(ctx shared.TransactionContext, accountID points.AccountID) (*points.Account, error) {
	var model AccountModel
	if err := r.getDB(ctx).First(&model, "id = ?", accountID.String()).Error; err != nil {
		return nil, mapError(err, points.ErrAccountNotFound, nil)
	}
	return accountToDomain(&model)
}

// FindByUserID 根據用戶 ID 查詢（1:1）
func (r *GORMAccountRepository) FindByUserID(ctx shared.TransactionContext, userID shared.UserID) (*points.Account, error) {
	var model AccountModel
	if err := r.getDB(ctx).First(&model, "user_id = ?", userID.String()).Error; err != nil {
		return nil, mapError(err, points.ErrAccountNotFound, nil)
	}
	return accountToDomain(&model)
}

// Update 條件更新（WHERE id = ? AND version = ?）
//
// 成功後調用 account.IncrementVersion()，同一聚合可在同一事務中連續更新。
func (r *GORMAccountRepository) Update(ctx shared.TransactionContext, account *points.Account) error {
	db := r.getDB(ctx)
	model := accountToGORM(account)
	model.Version = account.Version() + 1

	result := db.Model(&AccountModel{}).
		Where("id = ? AND version = ?", model.ID, account.Version()).
		Select("total_points", "lifetime_points", "tier", "is_active", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return conditionalUpdateError(db, &AccountModel{}, model.ID, points.ErrAccountNotFound)
	}

	account.IncrementVersion()
	return nil
}

// ===========================
// 私有輔助方法
// ===========================

// getDB 從 TransactionContext 獲取 GORM DB
//
// 如果 ctx 是事務上下文，返回事務 DB；否則返回默認 DB
func (r *GORMAccountRepository) getDB(ctx shared.TransactionContext) *gorm.DB {
	return resolveDB(ctx, r.db)
}
