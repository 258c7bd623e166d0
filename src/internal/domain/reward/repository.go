package reward

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// CatalogFilter 獎勵目錄查詢條件
type CatalogFilter struct {
	Category     string
	Tier         tier.Tier // 非空時只返回無等級限制或等級相同的獎勵
	FeaturedOnly bool
	ActiveOnly   bool
	Offset       int
	Limit        int
}

// RewardRepository 獎勵倉儲介面
type RewardRepository interface {
	Save(ctx shared.TransactionContext, reward *Reward) error

	// FindByID 返回 ErrRewardNotFound 若不存在
	FindByID(ctx shared.TransactionContext, id RewardID) (*Reward, error)

	// List 按 pointsCost 升序
	List(ctx shared.TransactionContext, filter CatalogFilter) ([]*Reward, int64, error)

	// Update 條件更新（WHERE version = reward.Version()）
	Update(ctx shared.TransactionContext, reward *Reward) error
}

// RedemptionFilter 兌換記錄查詢條件
type RedemptionFilter struct {
	UserID shared.UserID
	Status Status // 空字串表示不過濾
	Offset int
	Limit  int
}

// RedemptionRepository 兌換記錄倉儲介面
type RedemptionRepository interface {
	// Save 兌換碼重複返回 ErrRedemptionCodeConflict
	Save(ctx shared.TransactionContext, redemption *Redemption) error

	// FindByID 返回 ErrRedemptionNotFound 若不存在
	FindByID(ctx shared.TransactionContext, id RedemptionID) (*Redemption, error)

	// List 按時間倒序
	List(ctx shared.TransactionContext, filter RedemptionFilter) ([]*Redemption, int64, error)

	// ListExpirable 狀態為 pending/processing 且 expiresAt < now
	ListExpirable(ctx shared.TransactionContext, now time.Time, limit int) ([]*Redemption, error)

	// Update 條件更新（WHERE version = redemption.Version()）
	Update(ctx shared.TransactionContext, redemption *Redemption) error
}
