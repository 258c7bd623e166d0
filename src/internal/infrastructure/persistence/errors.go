package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// uniqueViolationMarkers 各資料庫唯一約束違反的錯誤訊息片段
// SQLite: "UNIQUE constraint failed"
// MySQL: "Duplicate entry"
// PostgreSQL: "duplicate key value violates unique constraint"
var uniqueViolationMarkers = []string{"UNIQUE constraint", "Duplicate entry", "duplicate key"}

// isUniqueViolation 是否為唯一約束違反
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range uniqueViolationMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// mapError 映射 GORM 錯誤到 Domain 錯誤
//
// 映射規則：
// - gorm.ErrRecordNotFound      → notFound
// - 唯一約束違反                  → conflict
// - 其他錯誤                      → shared.ErrRepositoryError
//
// notFound / conflict 為 nil 時跳過對應規則。
// 唯一約束檢測使用字串匹配（依賴英文錯誤訊息）。
func mapError(err error, notFound, conflict *shared.DomainError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if conflict != nil && isUniqueViolation(err) {
		return conflict.WithContext("database_error", err.Error())
	}
	return shared.ErrRepositoryError.WithContext("database_error", err.Error())
}

// conditionalUpdateError 條件更新沒有命中任何資料列時的錯誤判斷
//
// 資料列存在 → 版本號不符（shared.ErrConcurrentModification）
// 資料列不存在 → notFound
func conditionalUpdateError(db *gorm.DB, model interface{}, id string, notFound *shared.DomainError) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return mapError(err, nil, nil)
	}
	if count == 0 {
		return notFound.WithContext("id", id)
	}
	return shared.ErrConcurrentModification.WithContext("id", id)
}

// pageLimit 分頁上限保護
func pageLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	}
	return limit
}
