package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// GORM Model 定義
// ===========================

// AccountModel GORM 積分帳戶模型
//
// 時間戳由 Domain 聚合管理（關閉 GORM 自動時間戳），統一以 UTC 保存。
type AccountModel struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	UserID         string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	TotalPoints    int       `gorm:"not null;check:total_points >= 0"`
	LifetimePoints int       `gorm:"not null;check:lifetime_points >= 0"`
	Tier           string    `gorm:"type:varchar(16);not null;index"` // 冗餘欄位（報表用），讀取時由 lifetime_points 推導
	IsActive       bool      `gorm:"not null"`
	Version        int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (AccountModel) TableName() string {
	return "loyalty_accounts"
}

// PointHistoryModel GORM 積分流水模型（只追加）
type PointHistoryModel struct {
	ID            string          `gorm:"type:varchar(36);primaryKey"`
	AccountID     string          `gorm:"type:varchar(36);not null;index"`
	UserID        string          `gorm:"type:varchar(36);not null;index:idx_point_history_user_created,priority:1"`
	Type          string          `gorm:"type:varchar(16);not null;index"`
	Points        int             `gorm:"not null"`
	BalanceBefore int             `gorm:"not null"`
	BalanceAfter  int             `gorm:"not null;check:balance_after >= 0"`
	Description   string          `gorm:"type:varchar(255)"`
	ReferenceType string          `gorm:"type:varchar(16);not null"`
	ReferenceID   string          `gorm:"type:varchar(64);index"`
	BasePoints    int             `gorm:"not null"`
	BonusPoints   int             `gorm:"not null"`
	Multiplier    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime:false;index:idx_point_history_user_created,priority:2"`
}

// TableName 指定表名
func (PointHistoryModel) TableName() string {
	return "point_history"
}
