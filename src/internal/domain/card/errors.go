package card

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// 錯誤代碼
const (
	ErrCodeInvalidCardID            shared.ErrorCode = "CARD_ID_INVALID"
	ErrCodeInvalidTransactionID     shared.ErrorCode = "TRANSACTION_ID_INVALID"
	ErrCodeCardNotFound             shared.ErrorCode = "CARD_NOT_FOUND"
	ErrCodeCardNumberConflict       shared.ErrorCode = "CARD_NUMBER_CONFLICT"
	ErrCodeCardInactive             shared.ErrorCode = "CARD_INACTIVE"
	ErrCodeCardAccessDenied         shared.ErrorCode = "CARD_ACCESS_DENIED"
	ErrCodeInsufficientBalance      shared.ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeDailyLimitExceeded       shared.ErrorCode = "DAILY_LIMIT_EXCEEDED"
	ErrCodeSameCardTransfer         shared.ErrorCode = "SAME_CARD_TRANSFER"
	ErrCodeTransactionNotFound      shared.ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionAlreadyVoided shared.ErrorCode = "TRANSACTION_ALREADY_VOIDED"
	ErrCodeAlreadyRefunded          shared.ErrorCode = "TRANSACTION_ALREADY_REFUNDED"
	ErrCodeNotRefundable            shared.ErrorCode = "TRANSACTION_NOT_REFUNDABLE"
	ErrCodeInvalidTransactionType   shared.ErrorCode = "TRANSACTION_TYPE_INVALID"
	ErrCodeInvalidDetails           shared.ErrorCode = "TRANSACTION_DETAILS_INVALID"
	ErrCodeCorruptedCard            shared.ErrorCode = "CARD_CORRUPTED"
	ErrCodeCorruptedTransaction     shared.ErrorCode = "TRANSACTION_CORRUPTED"
)

// 卡片相關錯誤
var (
	ErrInvalidCardID = shared.NewDomainError(ErrCodeInvalidCardID, "無效的禮品卡 ID")

	ErrCardNotFound = shared.NewDomainError(ErrCodeCardNotFound, "禮品卡不存在")

	ErrCardNumberConflict = shared.NewDomainError(ErrCodeCardNumberConflict, "卡號已存在")

	ErrCardInactive = shared.NewDomainError(ErrCodeCardInactive, "禮品卡未啟用")

	// ErrCardAccessDenied 非持卡人操作他人的卡片
	ErrCardAccessDenied = shared.NewDomainError(ErrCodeCardAccessDenied, "無權操作此禮品卡")

	ErrInsufficientBalance = shared.NewDomainError(ErrCodeInsufficientBalance, "餘額不足")

	ErrDailyLimitExceeded = shared.NewDomainError(ErrCodeDailyLimitExceeded, "超過每日儲值上限")

	ErrSameCardTransfer = shared.NewDomainError(ErrCodeSameCardTransfer, "不能轉帳給同一張卡")

	ErrCorruptedCard = shared.NewDomainError(ErrCodeCorruptedCard, "禮品卡資料損壞")
)

// 交易相關錯誤
var (
	ErrInvalidTransactionID = shared.NewDomainError(ErrCodeInvalidTransactionID, "無效的交易 ID")

	ErrTransactionNotFound = shared.NewDomainError(ErrCodeTransactionNotFound, "交易不存在")

	ErrTransactionAlreadyVoided = shared.NewDomainError(ErrCodeTransactionAlreadyVoided, "交易已作廢")

	ErrAlreadyRefunded = shared.NewDomainError(ErrCodeAlreadyRefunded, "交易已退款")

	ErrNotRefundable = shared.NewDomainError(ErrCodeNotRefundable, "只有已完成的付款交易可以退款")

	ErrInvalidTransactionType = shared.NewDomainError(ErrCodeInvalidTransactionType, "無效的交易類型")

	ErrInvalidDetails = shared.NewDomainError(ErrCodeInvalidDetails, "交易明細與交易類型不符")

	ErrCorruptedTransaction = shared.NewDomainError(ErrCodeCorruptedTransaction, "交易資料損壞")
)
