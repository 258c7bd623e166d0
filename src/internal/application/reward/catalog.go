package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// RewardSpec 建立/更新獎勵的欄位
type RewardSpec struct {
	Name         string
	Description  string
	Category     string
	ImageURL     string
	Terms        string
	PointsCost   int
	Stock        int // -1 表示不限量
	RequiredTier string
	IsFeatured   bool
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

func (s RewardSpec) toDomain() (reward.Spec, error) {
	var required tier.Tier
	if s.RequiredTier != "" {
		t, err := tier.Parse(s.RequiredTier)
		if err != nil {
			return reward.Spec{}, err
		}
		required = t
	}
	return reward.Spec{
		Name:         s.Name,
		Description:  s.Description,
		Category:     s.Category,
		ImageURL:     s.ImageURL,
		Terms:        s.Terms,
		PointsCost:   s.PointsCost,
		Stock:        s.Stock,
		RequiredTier: required,
		IsFeatured:   s.IsFeatured,
		ValidFrom:    s.ValidFrom,
		ValidUntil:   s.ValidUntil,
	}, nil
}

// ===========================
// RewardCatalog Use Case
// ===========================

// RewardCatalogUseCase 獎勵目錄（管理與查詢）
type RewardCatalogUseCase struct {
	rewards   reward.RewardRepository
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewRewardCatalogUseCase 創建 Use Case 實例
func NewRewardCatalogUseCase(
	rewards reward.RewardRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *RewardCatalogUseCase {
	return &RewardCatalogUseCase{rewards: rewards, txManager: txManager, clock: clock}
}

// Create 管理員建立獎勵
func (uc *RewardCatalogUseCase) Create(ctx context.Context, spec RewardSpec) (*RewardResult, error) {
	domainSpec, err := spec.toDomain()
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	r, err := reward.NewReward(domainSpec, now)
	if err != nil {
		return nil, err
	}
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if err := uc.rewards.Save(tx, r); err != nil {
			return fmt.Errorf("failed to save reward: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRewardResult(r, now), nil
}

// Update 管理員更新獎勵（整份覆寫可編輯欄位）
func (uc *RewardCatalogUseCase) Update(ctx context.Context, rewardID string, spec RewardSpec) (*RewardResult, error) {
	domainSpec, err := spec.toDomain()
	if err != nil {
		return nil, err
	}

	var result *RewardResult
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := findReward(tx, uc.rewards, rewardID)
		if err != nil {
			return err
		}
		now := uc.clock.Now()
		if err := r.Update(domainSpec, now); err != nil {
			return err
		}
		if err := uc.rewards.Update(tx, r); err != nil {
			return fmt.Errorf("failed to update reward: %w", err)
		}
		result = toRewardResult(r, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Deactivate 停用獎勵（邏輯刪除，冪等）
func (uc *RewardCatalogUseCase) Deactivate(ctx context.Context, rewardID string) (*RewardResult, error) {
	var result *RewardResult
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		r, err := findReward(tx, uc.rewards, rewardID)
		if err != nil {
			return err
		}
		now := uc.clock.Now()
		if r.IsActive() {
			r.Deactivate(now)
			if err := uc.rewards.Update(tx, r); err != nil {
				return fmt.Errorf("failed to update reward: %w", err)
			}
		}
		result = toRewardResult(r, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get 單一獎勵
func (uc *RewardCatalogUseCase) Get(rewardID string) (*RewardResult, error) {
	r, err := findReward(nil, uc.rewards, rewardID)
	if err != nil {
		return nil, err
	}
	return toRewardResult(r, uc.clock.Now()), nil
}

// ListRewardsQuery 目錄查詢
type ListRewardsQuery struct {
	Category        string
	Tier            string // 只返回無等級限制或等級相同的獎勵
	FeaturedOnly    bool
	IncludeInactive bool // 管理員查看
	Page            common.Page
}

// ListRewardsResult 目錄分頁
type ListRewardsResult struct {
	Items    []*RewardResult `json:"items"`
	PageInfo common.PageInfo `json:"page_info"`
}

// List 目錄（按所需積分升序）
func (uc *RewardCatalogUseCase) List(q ListRewardsQuery) (*ListRewardsResult, error) {
	filter := reward.CatalogFilter{
		Category:     q.Category,
		FeaturedOnly: q.FeaturedOnly,
		ActiveOnly:   !q.IncludeInactive,
	}
	if q.Tier != "" {
		t, err := tier.Parse(q.Tier)
		if err != nil {
			return nil, err
		}
		filter.Tier = t
	}
	page := q.Page.Normalize()
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	rewards, total, err := uc.rewards.List(nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	now := uc.clock.Now()
	items := make([]*RewardResult, 0, len(rewards))
	for _, r := range rewards {
		items = append(items, toRewardResult(r, now))
	}
	return &ListRewardsResult{Items: items, PageInfo: common.NewPageInfo(page, total)}, nil
}
