package persistence

import (
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// GORMHistoryRepository 積分流水倉儲（只追加）
type GORMHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 建構函數
func NewHistoryRepository(db *gorm.DB) *GORMHistoryRepository {
	return &GORMHistoryRepository{db: db}
}

var _ points.HistoryRepository = (*GORMHistoryRepository)(nil)

// Append 追加一筆流水
func (r *GORMHistoryRepository) Append(ctx shared.TransactionContext, entry *points.PointHistory) error {
	if err := resolveDB(ctx, r.db).Create(historyToGORM(entry)).Error; err != nil {
		return mapError(err, nil, nil)
	}
	return nil
}

// FindByID 依流水 ID 查找
func (r *GORMHistoryRepository) FindByID(ctx shared.TransactionContext, id points.HistoryID) (*points.PointHistory, error) {
	var model PointHistoryModel
	if err := resolveDB(ctx, r.db).Where("id = ?", id.String()).First(&model).Error; err != nil {
		return nil, mapError(err, points.ErrHistoryNotFound, nil)
	}
	return historyToDomain(&model)
}

// List 按時間倒序分頁查詢
func (r *GORMHistoryRepository) List(ctx shared.TransactionContext, filter points.HistoryFilter) ([]*points.PointHistory, int64, error) {
	query := resolveDB(ctx, r.db).Model(&PointHistoryModel{}).Where("user_id = ?", filter.UserID.String())
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	var models []PointHistoryModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(pageLimit(filter.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	entries := make([]*points.PointHistory, 0, len(models))
	for i := range models {
		entry, err := historyToDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// SumByUser 用戶所有流水的 points 總和
func (r *GORMHistoryRepository) SumByUser(ctx shared.TransactionContext, userID shared.UserID) (int, error) {
	var sum int64
	err := resolveDB(ctx, r.db).
		Model(&PointHistoryModel{}).
		Where("user_id = ?", userID.String()).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, mapError(err, nil, nil)
	}
	return int(sum), nil
}
