package reward

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// 錯誤代碼
const (
	ErrCodeInvalidRewardID             shared.ErrorCode = "REWARD_ID_INVALID"
	ErrCodeInvalidRedemptionID         shared.ErrorCode = "REDEMPTION_ID_INVALID"
	ErrCodeRewardNotFound              shared.ErrorCode = "REWARD_NOT_FOUND"
	ErrCodeRedemptionNotFound          shared.ErrorCode = "REDEMPTION_NOT_FOUND"
	ErrCodeRewardUnavailable           shared.ErrorCode = "REWARD_UNAVAILABLE"
	ErrCodeTierNotMet                  shared.ErrorCode = "TIER_NOT_MET"
	ErrCodeInvalidReward               shared.ErrorCode = "REWARD_INVALID"
	ErrCodeInvalidQuantity             shared.ErrorCode = "REDEMPTION_QUANTITY_INVALID"
	ErrCodeInvalidRedemptionTransition shared.ErrorCode = "REDEMPTION_TRANSITION_INVALID"
	ErrCodeInvalidRedemptionStatus     shared.ErrorCode = "REDEMPTION_STATUS_INVALID"
	ErrCodeRedemptionCodeConflict      shared.ErrorCode = "REDEMPTION_CODE_CONFLICT"
)

var (
	ErrInvalidRewardID = shared.NewDomainError(ErrCodeInvalidRewardID, "無效的獎勵 ID")

	ErrInvalidRedemptionID = shared.NewDomainError(ErrCodeInvalidRedemptionID, "無效的兌換 ID")

	ErrRewardNotFound = shared.NewDomainError(ErrCodeRewardNotFound, "獎勵不存在")

	ErrRedemptionNotFound = shared.NewDomainError(ErrCodeRedemptionNotFound, "兌換記錄不存在")

	// ErrRewardUnavailable 未啟用、庫存不足或不在有效期內
	ErrRewardUnavailable = shared.NewDomainError(ErrCodeRewardUnavailable, "獎勵目前無法兌換")

	ErrTierNotMet = shared.NewDomainError(ErrCodeTierNotMet, "會員等級不符合兌換條件")

	ErrInvalidReward = shared.NewDomainError(ErrCodeInvalidReward, "無效的獎勵設定")

	ErrInvalidQuantity = shared.NewDomainError(ErrCodeInvalidQuantity, "兌換數量必須介於 1 與 100 之間")

	ErrInvalidRedemptionTransition = shared.NewDomainError(ErrCodeInvalidRedemptionTransition, "兌換狀態不允許此操作")

	ErrInvalidRedemptionStatus = shared.NewDomainError(ErrCodeInvalidRedemptionStatus, "無效的兌換狀態")

	ErrRedemptionCodeConflict = shared.NewDomainError(ErrCodeRedemptionCodeConflict, "兌換碼已存在")
)
