package points

import (
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// AccountID - 積分帳戶 ID
// ===========================

// AccountMarker 是 AccountID 的標記類型
type AccountMarker struct{}

// AccountID 積分帳戶的唯一標識符
type AccountID = shared.EntityID[AccountMarker]

// NewAccountID 生成新的積分帳戶 ID（UUID v4）
func NewAccountID() AccountID {
	return shared.NewEntityID[AccountMarker]()
}

// AccountIDFromString 從字串解析積分帳戶 ID
func AccountIDFromString(s string) (AccountID, error) {
	return shared.EntityIDFromString[AccountMarker](s, ErrInvalidAccountID)
}

// ===========================
// HistoryID - 積分流水 ID
// ===========================

// HistoryMarker 是 HistoryID 的標記類型
type HistoryMarker struct{}

// HistoryID 積分流水的唯一標識符
type HistoryID = shared.EntityID[HistoryMarker]

// NewHistoryID 生成新的積分流水 ID
func NewHistoryID() HistoryID {
	return shared.NewEntityID[HistoryMarker]()
}

// HistoryIDFromString 從字串解析積分流水 ID
func HistoryIDFromString(s string) (HistoryID, error) {
	return shared.EntityIDFromString[HistoryMarker](s, ErrInvalidHistoryID)
}
