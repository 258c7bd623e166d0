package persistence

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
)

// NotificationModel 站內通知
type NotificationModel struct {
	ID        string            `gorm:"type:varchar(36);primaryKey"`
	UserID    string            `gorm:"type:varchar(36);not null;index:idx_notifications_user_created,priority:1"`
	Type      string            `gorm:"type:varchar(20);not null"`
	Title     string            `gorm:"type:varchar(200);not null"`
	Message   string            `gorm:"type:text;not null"`
	Data      datatypes.JSONMap `gorm:"type:json"`
	IsRead    bool              `gorm:"not null"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime:false;index:idx_notifications_user_created,priority:2"`
}

// TableName 指定表名
func (NotificationModel) TableName() string {
	return "notifications"
}

// GORMNotificationRepository notification.Inbox 的 GORM 實作
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 建構函數
func NewNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

var _ notification.Inbox = (*GORMNotificationRepository)(nil)

// Save 寫入通知（事務提交之後調用，不參與帳本事務）
func (r *GORMNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := &NotificationModel{
		ID:        n.ID,
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      datatypes.JSONMap(n.Data),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return mapError(err, nil, nil)
	}
	return nil
}

// ListByUser 用戶通知（時間倒序）
func (r *GORMNotificationRepository) ListByUser(ctx context.Context, userID shared.UserID, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.String())
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var models []NotificationModel
	err := query.
		Order("created_at DESC").
		Limit(pageLimit(limit)).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, nil, nil)
	}

	result := make([]*notification.Notification, 0, len(models))
	for _, m := range models {
		result = append(result, &notification.Notification{
			ID:        m.ID,
			UserID:    userID,
			Type:      notification.Type(m.Type),
			Title:     m.Title,
			Message:   m.Message,
			Data:      normalizeJSONNumbers(m.Data),
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	return result, nil
}

// MarkRead 標記已讀；不屬於該用戶的通知視為不存在
func (r *GORMNotificationRepository) MarkRead(ctx context.Context, userID shared.UserID, id string) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID.String()).
		Update("is_read", true)
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL 對值未變更的資料列回報 0，需再確認是否存在
	var count int64
	err := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID.String()).
		Count(&count).Error
	if err != nil {
		return mapError(err, nil, nil)
	}
	if count == 0 {
		return notification.ErrNotificationNotFound.WithContext("id", id)
	}
	return nil
}

// normalizeJSONNumbers datatypes.JSONMap 以 UseNumber 解碼，數字會是 json.Number；
// 轉回寫入時的型別（整數 → int64，其餘 → float64），巢狀結構一併處理
func normalizeJSONNumbers(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return nil
	}
	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		result[k] = normalizeJSONValue(v)
	}
	return result
}

func normalizeJSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		return normalizeJSONNumbers(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeJSONValue(item)
		}
		return out
	default:
		return v
	}
}
