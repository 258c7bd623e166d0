package reward

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// RewardMarker 是 RewardID 的標記類型
type RewardMarker struct{}

// RewardID 獎勵 ID
type RewardID = shared.EntityID[RewardMarker]

// NewRewardID 生成新的獎勵 ID
func NewRewardID() RewardID {
	return shared.NewEntityID[RewardMarker]()
}

// RewardIDFromString 從字串解析獎勵 ID
func RewardIDFromString(s string) (RewardID, error) {
	return shared.EntityIDFromString[RewardMarker](s, ErrInvalidRewardID)
}

// RedemptionMarker 是 RedemptionID 的標記類型
type RedemptionMarker struct{}

// RedemptionID 兌換記錄 ID
type RedemptionID = shared.EntityID[RedemptionMarker]

// NewRedemptionID 生成新的兌換記錄 ID
func NewRedemptionID() RedemptionID {
	return shared.NewEntityID[RedemptionMarker]()
}

// RedemptionIDFromString 從字串解析兌換記錄 ID
func RedemptionIDFromString(s string) (RedemptionID, error) {
	return shared.EntityIDFromString[RedemptionMarker](s, ErrInvalidRedemptionID)
}
