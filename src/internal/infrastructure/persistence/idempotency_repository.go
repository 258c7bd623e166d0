package persistence

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// IdempotencyKeyModel 冪等鍵（主鍵即唯一約束）
type IdempotencyKeyModel struct {
	Key        string    `gorm:"column:idem_key;type:varchar(128);primaryKey"`
	Operation  string    `gorm:"type:varchar(64);not null"`
	ResourceID string    `gorm:"type:varchar(64);not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false;index"`
}

// TableName 指定表名
func (IdempotencyKeyModel) TableName() string {
	return "idempotency_keys"
}

// GORMIdempotencyRepository 冪等鍵倉儲
type GORMIdempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository 建構函數
func NewIdempotencyRepository(db *gorm.DB) *GORMIdempotencyRepository {
	return &GORMIdempotencyRepository{db: db}
}

var _ shared.IdempotencyRepository = (*GORMIdempotencyRepository)(nil)

// Find 查找冪等鍵；不存在時返回 (nil, nil)
func (r *GORMIdempotencyRepository) Find(ctx shared.TransactionContext, key string) (*shared.IdempotencyRecord, error) {
	var model IdempotencyKeyModel
	err := resolveDB(ctx, r.db).First(&model, "idem_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return &shared.IdempotencyRecord{
		Key:        model.Key,
		Operation:  model.Operation,
		ResourceID: model.ResourceID,
		CreatedAt:  model.CreatedAt,
	}, nil
}

// Save 寫入冪等鍵；鍵已存在時返回 shared.ErrDuplicateRequest
func (r *GORMIdempotencyRepository) Save(ctx shared.TransactionContext, record shared.IdempotencyRecord) error {
	model := &IdempotencyKeyModel{
		Key:        record.Key,
		Operation:  record.Operation,
		ResourceID: record.ResourceID,
		CreatedAt:  record.CreatedAt.UTC(),
	}
	if err := resolveDB(ctx, r.db).Create(model).Error; err != nil {
		return mapError(err, nil, shared.ErrDuplicateRequest)
	}
	return nil
}
