package persistence

import (
	"time"

	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// GORMRewardRepository
// ===========================

// GORMRewardRepository 獎勵倉儲
type GORMRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 建構函數
func NewRewardRepository(db *gorm.DB) *GORMRewardRepository {
	return &GORMRewardRepository{db: db}
}

var _ reward.RewardRepository = (*GORMRewardRepository)(nil)

// Save 保存新獎勵
func (r *GORMRewardRepository) Save(ctx shared.TransactionContext, rw *reward.Reward) error {
	if err := resolveDB(ctx, r.db).Create(rewardToGORM(rw)).Error; err != nil {
		return mapError(err, nil, nil)
	}
	return nil
}

// FindByID 依 ID 查找
func (r *GORMRewardRepository) FindByID(ctx shared.TransactionContext, id reward.RewardID) (*reward.Reward, error) {
	var model RewardModel
	if err := resolveDB(ctx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, mapError(err, reward.ErrRewardNotFound, nil)
	}
	return rewardToDomain(&model)
}

// List 目錄查詢（按 points_cost 升序）
//
// 等級過濾：tier IS NULL OR tier = ?（無等級限制的獎勵對所有人可見）
func (r *GORMRewardRepository) List(ctx shared.TransactionContext, filter reward.CatalogFilter) ([]*reward.Reward, int64, error) {
	query := resolveDB(ctx, r.db).Model(&RewardModel{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Tier != "" {
		query = query.Where("tier IS NULL OR tier = ?", filter.Tier.String())
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	var models []RewardModel
	err := query.
		Order("points_cost ASC").
		Order("created_at ASC").
		Offset(filter.Offset).
		Limit(pageLimit(filter.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	rewards := make([]*reward.Reward, 0, len(models))
	for i := range models {
		rw, err := rewardToDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, total, nil
}

// Update 條件更新（WHERE id = ? AND version = ?）
//
// 兩個並發兌換讀到同一版本時，只有一個能扣到庫存。
func (r *GORMRewardRepository) Update(ctx shared.TransactionContext, rw *reward.Reward) error {
	db := resolveDB(ctx, r.db)
	model := rewardToGORM(rw)
	model.Version = rw.Version() + 1

	result := db.Model(&RewardModel{}).
		Where("id = ? AND version = ?", model.ID, rw.Version()).
		Select(
			"name", "description", "category", "image_url", "terms", "points_cost",
			"stock", "redeem_count", "tier", "is_active", "is_featured",
			"valid_from", "valid_until", "version", "updated_at",
		).
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return conditionalUpdateError(db, &RewardModel{}, model.ID, reward.ErrRewardNotFound)
	}

	rw.IncrementVersion()
	return nil
}

// ===========================
// GORMRedemptionRepository
// ===========================

// GORMRedemptionRepository 兌換記錄倉儲
type GORMRedemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository 建構函數
func NewRedemptionRepository(db *gorm.DB) *GORMRedemptionRepository {
	return &GORMRedemptionRepository{db: db}
}

var _ reward.RedemptionRepository = (*GORMRedemptionRepository)(nil)

// Save 保存新兌換記錄；兌換碼重複返回 reward.ErrRedemptionCodeConflict
func (r *GORMRedemptionRepository) Save(ctx shared.TransactionContext, red *reward.Redemption) error {
	if err := resolveDB(ctx, r.db).Create(redemptionToGORM(red)).Error; err != nil {
		return mapError(err, nil, reward.ErrRedemptionCodeConflict)
	}
	return nil
}

// FindByID 依 ID 查找
func (r *GORMRedemptionRepository) FindByID(ctx shared.TransactionContext, id reward.RedemptionID) (*reward.Redemption, error) {
	var model RedemptionModel
	if err := resolveDB(ctx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, mapError(err, reward.ErrRedemptionNotFound, nil)
	}
	return redemptionToDomain(&model)
}

// List 用戶兌換記錄（時間倒序）
func (r *GORMRedemptionRepository) List(ctx shared.TransactionContext, filter reward.RedemptionFilter) ([]*reward.Redemption, int64, error) {
	query := resolveDB(ctx, r.db).Model(&RedemptionModel{})
	if !filter.UserID.IsEmpty() {
		query = query.Where("user_id = ?", filter.UserID.String())
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	var models []RedemptionModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(pageLimit(filter.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	redemptions, err := redemptionsToDomain(models)
	if err != nil {
		return nil, 0, err
	}
	return redemptions, total, nil
}

// ListExpirable 狀態為 pending/processing 且已過期
func (r *GORMRedemptionRepository) ListExpirable(ctx shared.TransactionContext, now time.Time, limit int) ([]*reward.Redemption, error) {
	if limit <= 0 {
		limit = 100
	}

	var models []RedemptionModel
	err := resolveDB(ctx, r.db).
		Where("status IN ?", []string{string(reward.StatusPending), string(reward.StatusProcessing)}).
		Where("expires_at < ?", now.UTC()).
		Order("expires_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return redemptionsToDomain(models)
}

// Update 條件更新（WHERE id = ? AND version = ?）
func (r *GORMRedemptionRepository) Update(ctx shared.TransactionContext, red *reward.Redemption) error {
	db := resolveDB(ctx, r.db)
	model := redemptionToGORM(red)
	model.Version = red.Version() + 1

	result := db.Model(&RedemptionModel{}).
		Where("id = ? AND version = ?", model.ID, red.Version()).
		Select("status", "used_at", "notes", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return conditionalUpdateError(db, &RedemptionModel{}, model.ID, reward.ErrRedemptionNotFound)
	}

	red.IncrementVersion()
	return nil
}

func redemptionsToDomain(models []RedemptionModel) ([]*reward.Redemption, error) {
	redemptions := make([]*reward.Redemption, 0, len(models))
	for i := range models {
		red, err := redemptionToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		redemptions = append(redemptions, red)
	}
	return redemptions, nil
}
