package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// GORMTransactionRepository 卡片交易倉儲
//
// 交易是審計記錄：只有 Save 與 MarkVoided，沒有一般的 Update。
type GORMTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 建構函數
func NewTransactionRepository(db *gorm.DB) *GORMTransactionRepository {
	return &GORMTransactionRepository{db: db}
}

var _ card.TransactionRepository = (*GORMTransactionRepository)(nil)

// Save 寫入新交易
//
// 錯誤：
// - refund_of 唯一約束 → card.ErrAlreadyRefunded
// - reference 唯一約束 → shared.ErrDuplicateRequest
func (r *GORMTransactionRepository) Save(ctx shared.TransactionContext, tx *card.Transaction) error {
	err := resolveDB(ctx, r.db).Create(transactionToGORM(tx)).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) && strings.Contains(err.Error(), "refund_of") {
		return card.ErrAlreadyRefunded.WithContext("original_transaction_id", tx.RelatedID())
	}
	return mapError(err, nil, shared.ErrDuplicateRequest)
}

// FindByID 依 ID 查找
func (r *GORMTransactionRepository) FindByID(ctx shared.TransactionContext, id card.TransactionID) (*card.Transaction, error) {
	var model CardTransactionModel
	if err := resolveDB(ctx, r.db).First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, mapError(err, card.ErrTransactionNotFound, nil)
	}
	return transactionToDomain(&model)
}

// MarkVoided 條件更新 completed → voided
//
// WHERE status <> 'voided' 保證兩個並發作廢只有一個成功。
func (r *GORMTransactionRepository) MarkVoided(ctx shared.TransactionContext, tx *card.Transaction) error {
	db := resolveDB(ctx, r.db)
	model := transactionToGORM(tx)

	result := db.Model(&CardTransactionModel{}).
		Where("id = ? AND status <> ?", model.ID, string(card.StatusVoided)).
		Select("status", "voided_at", "voided_by", "void_reason", "updated_at").
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&CardTransactionModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return mapError(err, nil, nil)
		}
		if count == 0 {
			return card.ErrTransactionNotFound.WithContext("transaction_id", model.ID)
		}
		return card.ErrTransactionAlreadyVoided.WithContext("transaction_id", model.ID)
	}
	return nil
}

// List 按時間倒序分頁查詢
func (r *GORMTransactionRepository) List(ctx shared.TransactionContext, filter card.TransactionFilter) ([]*card.Transaction, int64, error) {
	query := resolveDB(ctx, r.db).Model(&CardTransactionModel{}).Where("card_id = ?", filter.CardID.String())
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	var models []CardTransactionModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(pageLimit(filter.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, 0, mapError(err, nil, nil)
	}

	txs, err := transactionsToDomain(models)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// FindByRelatedID 依關聯 ID 查找（轉帳對、退款）
func (r *GORMTransactionRepository) FindByRelatedID(ctx shared.TransactionContext, relatedID string) ([]*card.Transaction, error) {
	var models []CardTransactionModel
	err := resolveDB(ctx, r.db).
		Where("related_id = ?", relatedID).
		Order("created_at ASC").
		Order("type DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}
	return transactionsToDomain(models)
}

func transactionsToDomain(models []CardTransactionModel) ([]*card.Transaction, error) {
	txs := make([]*card.Transaction, 0, len(models))
	for i := range models {
		tx, err := transactionToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
