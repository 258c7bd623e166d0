package reward

import (
	"math"
	"strings"
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// UnlimitedStock 不追蹤庫存
const UnlimitedStock = -1

// MaxRedeemQuantity 單次兌換件數上限
const MaxRedeemQuantity = 100

// ===========================
// Reward 聚合根
// ===========================

// Reward 可兌換獎勵
//
// 業務不變條件：
// - pointsCost > 0
// - stock == -1（不限量）或 stock >= 0
// - redeemCount 只增不減（取消兌換會歸還庫存，但不減少兌換次數）
// - 停用是邏輯刪除（isActive=false）
type Reward struct {
	rewardID    RewardID
	name        string
	description string
	category    string
	imageURL    string
	terms       string

	pointsCost   int
	stock        int
	redeemCount  int
	requiredTier tier.Tier // 空字串表示無等級限制

	isActive   bool
	isFeatured bool
	validFrom  *time.Time
	validUntil *time.Time

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// Spec 建立/更新獎勵的可編輯欄位
type Spec struct {
	Name         string
	Description  string
	Category     string
	ImageURL     string
	Terms        string
	PointsCost   int
	Stock        int
	RequiredTier tier.Tier
	IsFeatured   bool
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

// Validate 檢查欄位
func (s Spec) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return ErrInvalidReward.WithContext("field", "name", "reason", "required")
	case strings.TrimSpace(s.Category) == "":
		return ErrInvalidReward.WithContext("field", "category", "reason", "required")
	case s.PointsCost <= 0:
		return ErrInvalidReward.WithContext("field", "points_cost", "value", s.PointsCost)
	case s.Stock < UnlimitedStock:
		return ErrInvalidReward.WithContext("field", "stock", "value", s.Stock)
	case s.RequiredTier != "" && !s.RequiredTier.IsValid():
		return ErrInvalidReward.WithContext("field", "tier", "value", string(s.RequiredTier))
	case s.ValidFrom != nil && s.ValidUntil != nil && s.ValidUntil.Before(*s.ValidFrom):
		return ErrInvalidReward.WithContext("field", "valid_until", "reason", "before valid_from")
	}
	return nil
}

// NewReward 管理員建立獎勵（預設啟用）
func NewReward(spec Spec, now time.Time) (*Reward, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	r := &Reward{
		rewardID:  NewRewardID(),
		isActive:  true,
		version:   1,
		createdAt: now,
	}
	r.apply(spec, now)
	return r, nil
}

// Snapshot 重建 Reward 所需欄位（僅供 Repository 使用）
type Snapshot struct {
	RewardID    RewardID
	Spec        Spec
	RedeemCount int
	IsActive    bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReconstructReward 從持久化存儲重建聚合根
func ReconstructReward(s Snapshot) (*Reward, error) {
	if s.RewardID.IsEmpty() {
		return nil, ErrInvalidRewardID.WithContext("reason", "invalid reward ID in database")
	}
	if err := s.Spec.Validate(); err != nil {
		return nil, err
	}
	r := &Reward{
		rewardID:    s.RewardID,
		redeemCount: s.RedeemCount,
		isActive:    s.IsActive,
		version:     s.Version,
		createdAt:   s.CreatedAt,
	}
	r.apply(s.Spec, s.UpdatedAt)
	return r, nil
}

// ===========================
// 查詢方法
// ===========================

// RewardID 獎勵 ID
func (r *Reward) RewardID() RewardID { return r.rewardID }

// Name 名稱
func (r *Reward) Name() string { return r.name }

// Description 描述
func (r *Reward) Description() string { return r.description }

// Category 分類
func (r *Reward) Category() string { return r.category }

// ImageURL 圖片
func (r *Reward) ImageURL() string { return r.imageURL }

// Terms 使用條款
func (r *Reward) Terms() string { return r.terms }

// PointsCost 單件所需積分
func (r *Reward) PointsCost() int { return r.pointsCost }

// Stock 庫存（-1 為不限量）
func (r *Reward) Stock() int { return r.stock }

// RedeemCount 累計兌換數量
func (r *Reward) RedeemCount() int { return r.redeemCount }

// RequiredTier 等級要求（空字串表示無）
func (r *Reward) RequiredTier() tier.Tier { return r.requiredTier }

// IsActive 是否啟用
func (r *Reward) IsActive() bool { return r.isActive }

// IsFeatured 是否精選
func (r *Reward) IsFeatured() bool { return r.isFeatured }

// ValidFrom 有效期開始
func (r *Reward) ValidFrom() *time.Time { return r.validFrom }

// ValidUntil 有效期結束
func (r *Reward) ValidUntil() *time.Time { return r.validUntil }

// Version 樂觀鎖版本號
func (r *Reward) Version() int { return r.version }

// CreatedAt 建立時間
func (r *Reward) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt 最後更新時間
func (r *Reward) UpdatedAt() time.Time { return r.updatedAt }

// Spec 當前可編輯欄位
func (r *Reward) Spec() Spec {
	return Spec{
		Name:         r.name,
		Description:  r.description,
		Category:     r.category,
		ImageURL:     r.imageURL,
		Terms:        r.terms,
		PointsCost:   r.pointsCost,
		Stock:        r.stock,
		RequiredTier: r.requiredTier,
		IsFeatured:   r.isFeatured,
		ValidFrom:    r.validFrom,
		ValidUntil:   r.validUntil,
	}
}

// IsUnlimited 是否不限量
func (r *Reward) IsUnlimited() bool { return r.stock == UnlimitedStock }

// IsAvailable 純函數：啟用、有庫存、在有效期內（缺少的邊界視為不限）
func (r *Reward) IsAvailable(now time.Time) bool {
	return r.IsAvailableFor(1, now)
}

// IsAvailableFor 同 IsAvailable，但要求庫存 >= quantity
func (r *Reward) IsAvailableFor(quantity int, now time.Time) bool {
	if !r.isActive {
		return false
	}
	if !r.IsUnlimited() && r.stock < quantity {
		return false
	}
	if r.validFrom != nil && now.Before(*r.validFrom) {
		return false
	}
	if r.validUntil != nil && now.After(*r.validUntil) {
		return false
	}
	return true
}

// CheckQuantity 件數必須在 1..MaxRedeemQuantity 之間，且總積分不得溢位
func (r *Reward) CheckQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxRedeemQuantity ||
		(r.pointsCost > 0 && quantity > math.MaxInt/r.pointsCost) {
		return ErrInvalidQuantity.WithContext("quantity", quantity, "max", MaxRedeemQuantity)
	}
	return nil
}

// TotalCost 兌換 quantity 件所需積分
func (r *Reward) TotalCost(quantity int) (int, error) {
	if err := r.CheckQuantity(quantity); err != nil {
		return 0, err
	}
	return r.pointsCost * quantity, nil
}

// IncrementVersion 版本號 +1（僅供 Repository 在條件更新成功後調用）
func (r *Reward) IncrementVersion() {
	r.version++
}

// ===========================
// 命令方法
// ===========================

// Reserve 兌換時扣庫存（不限量時只累計兌換數）
func (r *Reward) Reserve(quantity int, now time.Time) error {
	if err := r.CheckQuantity(quantity); err != nil {
		return err
	}
	if !r.IsAvailableFor(quantity, now) {
		return ErrRewardUnavailable.WithContext(
			"reward_id", r.rewardID.String(),
			"stock", r.stock,
			"quantity", quantity,
		)
	}

	if !r.IsUnlimited() {
		r.stock -= quantity
	}
	r.redeemCount += quantity
	r.updatedAt = now
	return nil
}

// RestoreStock 取消兌換時歸還庫存（redeemCount 不回退）
func (r *Reward) RestoreStock(quantity int, now time.Time) {
	if r.IsUnlimited() || quantity <= 0 {
		return
	}
	r.stock += quantity
	r.updatedAt = now
}

// Update 管理員更新欄位
func (r *Reward) Update(spec Spec, now time.Time) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	r.apply(spec, now)
	return nil
}

// Deactivate 停用（冪等）
func (r *Reward) Deactivate(now time.Time) {
	if !r.isActive {
		return
	}
	r.isActive = false
	r.updatedAt = now
}

func (r *Reward) apply(spec Spec, now time.Time) {
	r.name = strings.TrimSpace(spec.Name)
	r.description = spec.Description
	r.category = strings.TrimSpace(spec.Category)
	r.imageURL = spec.ImageURL
	r.terms = spec.Terms
	r.pointsCost = spec.PointsCost
	r.stock = spec.Stock
	r.requiredTier = spec.RequiredTier
	r.isFeatured = spec.IsFeatured
	r.validFrom = spec.ValidFrom
	r.validUntil = spec.ValidUntil
	r.updatedAt = now
}
