package persistence

import (
	"time"

	"gorm.io/datatypes"
)

// CardModel GORM 禮品卡模型
//
// 金額欄位為最小單位（satang，int64），SQL 條件運算在所有資料庫上都精確。
type CardModel struct {
	ID                string     `gorm:"type:varchar(36);primaryKey"`
	OwnerID           string     `gorm:"type:varchar(36);not null;index"`
	CardNumber        string     `gorm:"type:varchar(16);not null;uniqueIndex"`
	Currency          string     `gorm:"type:varchar(3);not null"`
	Balance           int64      `gorm:"not null;check:balance >= 0"`
	DailyLoadLimit    int64      `gorm:"not null;check:daily_load_limit > 0"`
	DailyLoadedToday  int64      `gorm:"not null;check:daily_loaded_today >= 0"`
	LastLoadResetDate string     `gorm:"type:varchar(10);not null"`
	IsActive          bool       `gorm:"not null"`
	ActivatedAt       *time.Time
	LastUsedAt        *time.Time
	Version           int        `gorm:"not null"`
	CreatedAt         time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time  `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (CardModel) TableName() string {
	return "gift_cards"
}

// CardTransactionModel GORM 卡片交易模型
//
// details 以 JSON 欄位保存（tagged variant，類型由 type 欄位決定）。
// related_id：轉帳對共用 transferID，退款指向原交易。
// refund_of：只有退款交易有值，唯一索引保證每筆付款最多退款一次。
type CardTransactionModel struct {
	ID            string                            `gorm:"type:varchar(36);primaryKey"`
	CardID        string                            `gorm:"type:varchar(36);not null;index:idx_card_transactions_card_created,priority:1"`
	UserID        string                            `gorm:"type:varchar(36);not null;index"`
	CashierID     string                            `gorm:"type:varchar(36)"`
	Type          string                            `gorm:"type:varchar(16);not null;index"`
	Amount        int64                             `gorm:"not null;check:amount > 0"`
	BalanceBefore int64                             `gorm:"not null;check:balance_before >= 0"`
	BalanceAfter  int64                             `gorm:"not null;check:balance_after >= 0"`
	PointsEarned  int                               `gorm:"not null"`
	Status        string                            `gorm:"type:varchar(16);not null"`
	Reference     string                            `gorm:"type:varchar(32);not null;uniqueIndex"`
	Description   string                            `gorm:"type:varchar(255)"`
	Details       datatypes.JSONType[detailsRecord] `gorm:"not null"`
	RelatedID     string                            `gorm:"type:varchar(36);index"`
	RefundOf      *string                           `gorm:"type:varchar(36);uniqueIndex"`
	VoidedAt      *time.Time
	VoidedBy      string                            `gorm:"type:varchar(36)"`
	VoidReason    string                            `gorm:"type:varchar(255)"`
	CreatedAt     time.Time                         `gorm:"not null;autoCreateTime:false;index:idx_card_transactions_card_created,priority:2"`
	UpdatedAt     time.Time                         `gorm:"not null;autoUpdateTime:false"`
}

// TableName 指定表名
func (CardTransactionModel) TableName() string {
	return "card_transactions"
}

// detailsRecord 交易明細的 JSON 結構（所有變體欄位的聯集）
type detailsRecord struct {
	Method                string              `json:"method,omitempty"`
	Items                 []paymentItemRecord `json:"items,omitempty"`
	TransferID            string              `json:"transfer_id,omitempty"`
	CounterpartyCardID    string              `json:"counterparty_card_id,omitempty"`
	OriginalTransactionID string              `json:"original_transaction_id,omitempty"`
	Credit                bool                `json:"credit,omitempty"`
	Reason                string              `json:"reason,omitempty"`
}

type paymentItemRecord struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // 最小單位
}
