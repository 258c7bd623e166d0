package shared

// UserMarker 是 UserID 的標記類型
type UserMarker struct{}

// UserID 平台用戶（會員、收銀員、管理員）的唯一標識符
//
// 積分帳戶、禮品卡、兌換記錄都以 UserID 關聯到同一個人，
// 因此定義在 shared，而不是任何單一 bounded context。
type UserID = EntityID[UserMarker]

// NewUserID 生成新的用戶 ID
func NewUserID() UserID {
	return NewEntityID[UserMarker]()
}

// UserIDFromString 從字串解析用戶 ID
func UserIDFromString(s string) (UserID, error) {
	return EntityIDFromString[UserMarker](s, ErrInvalidUserID)
}

// CodeGenerator 業務編號生成器（卡號、交易參考號、兌換碼）
//
// 由 Infrastructure Layer 實作（snowflake + hashids），保證全域唯一。
type CodeGenerator interface {
	CardNumber() string
	TransactionReference() string
	RedemptionCode() string
}
