package points

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

// 錯誤代碼常量
const (
	// 積分數量相關
	ErrCodeNegativePointsAmount shared.ErrorCode = "POINTS_NEGATIVE"
	ErrCodeInvalidPointsAmount  shared.ErrorCode = "POINTS_INVALID"
	ErrCodeInsufficientPoints   shared.ErrorCode = "POINTS_INSUFFICIENT"

	// 帳戶相關
	ErrCodeInvalidAccountID      shared.ErrorCode = "ACCOUNT_ID_INVALID"
	ErrCodeInvalidHistoryID      shared.ErrorCode = "POINT_HISTORY_ID_INVALID"
	ErrCodeHistoryNotFound       shared.ErrorCode = "POINT_HISTORY_NOT_FOUND"
	ErrCodeAccountNotFound       shared.ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountAlreadyExists  shared.ErrorCode = "ACCOUNT_ALREADY_EXISTS"
	ErrCodeAccountInactive       shared.ErrorCode = "ACCOUNT_INACTIVE"
	ErrCodeCorruptedAccount      shared.ErrorCode = "ACCOUNT_CORRUPTED"
	ErrCodeInvalidHistoryType    shared.ErrorCode = "POINT_HISTORY_TYPE_INVALID"
	ErrCodeInvalidReferenceType  shared.ErrorCode = "POINT_REFERENCE_TYPE_INVALID"
	ErrCodeInvalidPointsPolicy   shared.ErrorCode = "POINTS_POLICY_INVALID"
)

// ===========================
// 預定義錯誤
// ===========================

// 積分數量相關錯誤
var (
	ErrNegativePointsAmount = shared.NewDomainError(ErrCodeNegativePointsAmount, "積分數量不能為負數")

	ErrInvalidPointsAmount = shared.NewDomainError(ErrCodeInvalidPointsAmount, "積分數量必須大於 0")

	ErrInsufficientPoints = shared.NewDomainError(ErrCodeInsufficientPoints, "積分餘額不足")
)

// 帳戶相關錯誤
var (
	ErrInvalidAccountID = shared.NewDomainError(ErrCodeInvalidAccountID, "無效的帳戶 ID")

	ErrInvalidHistoryID = shared.NewDomainError(ErrCodeInvalidHistoryID, "無效的積分紀錄 ID")

	ErrAccountNotFound = shared.NewDomainError(ErrCodeAccountNotFound, "積分帳戶不存在")

	ErrAccountAlreadyExists = shared.NewDomainError(ErrCodeAccountAlreadyExists, "積分帳戶已存在")

	ErrAccountInactive = shared.NewDomainError(ErrCodeAccountInactive, "積分帳戶已停用")

	// ErrCorruptedAccount 資料庫中的帳戶違反不變條件（重建時檢測）
	ErrCorruptedAccount = shared.NewDomainError(ErrCodeCorruptedAccount, "積分帳戶資料損壞")
)

// 流水與政策相關錯誤
var (
	ErrInvalidHistoryType = shared.NewDomainError(ErrCodeInvalidHistoryType, "無效的積分紀錄類型")

	ErrHistoryNotFound = shared.NewDomainError(ErrCodeHistoryNotFound, "積分紀錄不存在")

	ErrInvalidReferenceType = shared.NewDomainError(ErrCodeInvalidReferenceType, "無效的關聯類型")

	ErrInvalidPointsPolicy = shared.NewDomainError(ErrCodeInvalidPointsPolicy, "每單位金額積分必須大於 0")
)
