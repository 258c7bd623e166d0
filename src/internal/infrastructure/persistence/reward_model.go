package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// RewardModel GORM 獎勵模型
type RewardModel struct {
	ID          string     `gorm:"type:varchar(36);primaryKey"`
	Name        string     `gorm:"type:varchar(128);not null"`
	Description string     `gorm:"type:text"`
	Category    string     `gorm:"type:varchar(32);not null;index"`
	ImageURL    string     `gorm:"type:varchar(512)"`
	Terms       string     `gorm:"type:text"`
	PointsCost  int        `gorm:"not null;index;check:points_cost > 0"`
	Stock       int        `gorm:"not null;check:stock >= -1"`
	RedeemCount int        `gorm:"not null;check:redeem_count >= 0"`
	Tier        *string    `gorm:"type:varchar(16);index"` // NULL 表示無等級限制
	IsActive    bool       `gorm:"not null;index"`
	IsFeatured  bool       `gorm:"not null"`
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Version     int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (RewardModel) TableName() string {
	return "rewards"
}

// RedemptionModel GORM 兌換記錄模型
type RedemptionModel struct {
	ID              string                            `gorm:"type:varchar(36);primaryKey"`
	UserID          string                            `gorm:"type:varchar(36);not null;index:idx_redemptions_user_created,priority:1"`
	RewardID        string                            `gorm:"type:varchar(36);not null;index"`
	RewardName      string                            `gorm:"type:varchar(128);not null"`
	PointsSpent     int                               `gorm:"not null;check:points_spent > 0"`
	Quantity        int                               `gorm:"not null;check:quantity > 0"`
	Status          string                            `gorm:"type:varchar(16);not null;index:idx_redemptions_status_expires,priority:1"`
	Code            string                            `gorm:"type:varchar(32);not null;uniqueIndex"`
	ExpiresAt       time.Time                         `gorm:"not null;index:idx_redemptions_status_expires,priority:2"`
	UsedAt          *time.Time
	Notes           string                            `gorm:"type:text"`
	DeliveryAddress datatypes.JSONType[addressRecord] `gorm:"not null"`
	Version         int                               `gorm:"not null"`
	CreatedAt       time.Time                         `gorm:"not null;autoCreateTime:false;index:idx_redemptions_user_created,priority:2"`
	UpdatedAt       time.Time                         `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (RedemptionModel) TableName() string {
	return "redemptions"
}

// addressRecord 寄送地址 JSON；Present 為 false 表示沒有地址（虛擬獎勵）
type addressRecord struct {
	Present    bool   `json:"present"`
	Recipient  string `json:"recipient,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}
