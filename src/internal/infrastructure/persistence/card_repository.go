package persistence

import (
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// GORMCardRepository 禮品卡倉儲
type GORMCardRepository struct {
	db *gorm.DB
}

// NewCardRepository 建構函數
func NewCardRepository(db *gorm.DB) *GORMCardRepository {
	return &GORMCardRepository{db: db}
}

var _ card.CardRepository = (*GORMCardRepository)(nil)

// Save 保存新卡
func (r *GORMCardRepository) Save(ctx shared.TransactionContext, c *card.Card) error {
	if err := resolveDB(ctx, r.db).Create(cardToGORM(c)).Error; err != nil {
		return mapError(err, nil, card.ErrCardNumberConflict)
	}
	return nil
}

// FindByID 依 ID 查找
func (r *GORMCardRepository) FindByID(ctx shared.TransactionContext, cardID card.CardID) (*card.Card, error) {
	return r.findOne(ctx, "id = ?", cardID.String())
}

// FindByNumber 依卡號查找
func (r *GORMCardRepository) FindByNumber(ctx shared.TransactionContext, cardNumber string) (*card.Card, error) {
	return r.findOne(ctx, "card_number = ?", cardNumber)
}

// ListByOwner 用戶的所有卡片（建立時間倒序）
func (r *GORMCardRepository) ListByOwner(ctx shared.TransactionContext, ownerID shared.UserID) ([]*card.Card, error) {
	var models []CardModel
	err := resolveDB(ctx, r.db).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}

	cards := make([]*card.Card, 0, len(models))
	for i := range models {
		c, err := cardToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Update 條件更新（WHERE id = ? AND version = ?）
func (r *GORMCardRepository) Update(ctx shared.TransactionContext, c *card.Card) error {
	db := resolveDB(ctx, r.db)
	model := cardToGORM(c)
	model.Version = c.Version() + 1

	result := db.Model(&CardModel{}).
		Where("id = ? AND version = ?", model.ID, c.Version()).
		Select(
			"balance", "daily_load_limit", "daily_loaded_today", "last_load_reset_date",
			"is_active", "activated_at", "last_used_at", "version", "updated_at",
		).
		Updates(model)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return conditionalUpdateError(db, &CardModel{}, model.ID, card.ErrCardNotFound)
	}

	c.IncrementVersion()
	return nil
}

func (r *GORMCardRepository) findOne(ctx shared.TransactionContext, query string, arg interface{}) (*card.Card, error) {
	var model CardModel
	if err := resolveDB(ctx, r.db).First(&model, query, arg).Error; err != nil {
		return nil, mapError(err, card.ErrCardNotFound, nil)
	}
	return cardToDomain(&model)
}
