package points

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// ===========================
// Account 聚合根
// ===========================

// Account 會員積分帳戶聚合根
//
// 設計原則：
// 1. 輕量級聚合：流水存在獨立表，聚合只持有餘額快照
// 2. 命令方法返回待寫入的 PointHistory，由 Use Case 在同一事務中持久化
// 3. 事件驅動：狀態變更記錄領域事件，提交後發布
//
// 業務不變條件：
// - totalPoints >= 0（可用積分）
// - lifetimePoints 只增不減（兌換、過期、調整都不影響）
// - tier == tier.ForLifetimePoints(lifetimePoints)，因此等級永不降級
type Account struct {
	accountID AccountID
	userID    shared.UserID

	totalPoints    PointsAmount
	lifetimePoints PointsAmount
	tier           tier.Tier

	isActive bool
	version  int // 樂觀鎖版本號

	createdAt time.Time
	updatedAt time.Time

	events shared.EventRecorder
}

// ===========================
// 建構函數（工廠方法）
// ===========================

// NewAccount 註冊時建立積分帳戶（零餘額、bronze）
func NewAccount(userID shared.UserID, now time.Time) (*Account, error) {
	if userID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "userID cannot be empty")
	}

	account := &Account{
		accountID:      NewAccountID(),
		userID:         userID,
		totalPoints:    newPointsAmountUnchecked(0),
		lifetimePoints: newPointsAmountUnchecked(0),
		tier:           tier.ForLifetimePoints(0),
		isActive:       true,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}

	account.events.Record(NewAccountCreatedEvent(account, now))
	return account, nil
}

// ReconstructAccount 從持久化存儲重建聚合根
//
// 不發布事件。tier 不由參數傳入，而是從 lifetimePoints 重新推導。
func ReconstructAccount(
	accountID AccountID,
	userID shared.UserID,
	totalPoints int,
	lifetimePoints int,
	isActive bool,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Account, error) {
	// 1. 驗證 ID
	if accountID.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext("reason", "invalid account ID in database")
	}
	if userID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "invalid user ID in database")
	}

	// 2. 驗證積分（防止負數污染領域層）
	total, err := NewPointsAmount(totalPoints)
	if err != nil {
		return nil, ErrCorruptedAccount.WithContext("field", "total_points", "value", totalPoints)
	}
	lifetime, err := NewPointsAmount(lifetimePoints)
	if err != nil {
		return nil, ErrCorruptedAccount.WithContext("field", "lifetime_points", "value", lifetimePoints)
	}

	return &Account{
		accountID:      accountID,
		userID:         userID,
		totalPoints:    total,
		lifetimePoints: lifetime,
		tier:           tier.ForLifetimePoints(lifetime.Value()),
		isActive:       isActive,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// ===========================
// 查詢方法
// ===========================

// AccountID 帳戶 ID
func (a *Account) AccountID() AccountID { return a.accountID }

// UserID 用戶 ID
func (a *Account) UserID() shared.UserID { return a.userID }

// TotalPoints 可用積分
func (a *Account) TotalPoints() PointsAmount { return a.totalPoints }

// LifetimePoints 累積積分
func (a *Account) LifetimePoints() PointsAmount { return a.lifetimePoints }

// Tier 當前等級
func (a *Account) Tier() tier.Tier { return a.tier }

// IsActive 是否啟用
func (a *Account) IsActive() bool { return a.isActive }

// Version 樂觀鎖版本號
func (a *Account) Version() int { return a.version }

// CreatedAt 建立時間
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt 最後更新時間
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }

// CanAfford 可用積分是否足夠
func (a *Account) CanAfford(points PointsAmount) bool {
	return a.totalPoints.GreaterThanOrEqual(points)
}

// PullEvents 取出待發布事件
func (a *Account) PullEvents() []shared.DomainEvent {
	return a.events.PullEvents()
}

// IncrementVersion 版本號 +1（僅供 Repository 在條件更新成功後調用）
func (a *Account) IncrementVersion() {
	a.version++
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// Earn 消費/儲值獲得積分
//
// award 由 PointsCalculationService 按當前等級計算。
// 總積分為 0 時不變更狀態，返回 (nil, nil)：不產生零值流水。
//
// 副作用：totalPoints 與 lifetimePoints 同時增加，重新計算等級，記錄 PointsChanged 事件
// （升級時另外記錄 TierUpgraded）。
func (a *Account) Earn(award Award, ref Reference, description string, now time.Time) (*PointHistory, error) {
	if err := a.ensureActive(); err != nil {
		return nil, err
	}
	if award.IsZero() {
		return nil, nil
	}

	entry := a.credit(HistoryEarn, newPointsAmountUnchecked(award.Total()), true, ref, description, now)
	entry.basePoints = award.Base
	entry.bonusPoints = award.Bonus
	entry.multiplier = award.Multiplier
	return entry, nil
}

// AwardBonus 活動贈送積分（計入累積積分，可能升級）
func (a *Account) AwardBonus(points PointsAmount, ref Reference, description string, now time.Time) (*PointHistory, error) {
	if err := a.ensureActive(); err != nil {
		return nil, err
	}
	if points.IsZero() {
		return nil, ErrInvalidPointsAmount.WithContext("points", 0)
	}
	return a.credit(HistoryBonus, points, true, ref, description, now), nil
}

// Refund 退回積分（取消兌換）
//
// 不計入累積積分：這些積分在原始 earn 時已經計入過一次。
func (a *Account) Refund(points PointsAmount, ref Reference, description string, now time.Time) (*PointHistory, error) {
	if points.IsZero() {
		return nil, ErrInvalidPointsAmount.WithContext("points", 0)
	}
	return a.credit(HistoryRefund, points, false, ref, description, now), nil
}

// Deduct 扣減積分（兌換）
//
// 前置條件：帳戶啟用、totalPoints >= points；失敗時不變更任何狀態。
// lifetimePoints 不變，因此等級不會因兌換而下降。
func (a *Account) Deduct(points PointsAmount, ref Reference, reason string, now time.Time) (*PointHistory, error) {
	if err := a.ensureActive(); err != nil {
		return nil, err
	}
	if points.IsZero() {
		return nil, ErrInvalidPointsAmount.WithContext("points", 0)
	}

	remaining, err := a.totalPoints.Subtract(points)
	if err != nil {
		return nil, ErrInsufficientPoints.WithContext(
			"user_id", a.userID.String(),
			"requested", points.Value(),
			"available", a.totalPoints.Value(),
		)
	}

	before := a.totalPoints.Value()
	a.totalPoints = remaining
	a.updatedAt = now

	entry := a.newEntry(HistoryRedeem, -points.Value(), before, ref, reason, now)
	a.events.Record(NewPointsChangedEvent(a, entry))
	return entry, nil
}

// Adjust 管理員調整積分
//
// 業務規則：
// - delta 不可為 0
// - 扣減超過餘額時餘額歸零（clamp），流水記錄實際套用的差額
// - 不影響累積積分與等級
//
// 實際差額為 0（餘額已為 0 時扣減）返回 (nil, nil)。
func (a *Account) Adjust(delta int, ref Reference, reason string, now time.Time) (*PointHistory, error) {
	if delta == 0 {
		return nil, ErrInvalidPointsAmount.WithContext("delta", 0)
	}

	applied := delta
	if a.totalPoints.Value()+delta < 0 {
		applied = -a.totalPoints.Value()
	}
	if applied == 0 {
		return nil, nil
	}

	before := a.totalPoints.Value()
	a.totalPoints = newPointsAmountUnchecked(before + applied)
	a.updatedAt = now

	entry := a.newEntry(HistoryAdjustment, applied, before, ref, reason, now)
	a.events.Record(NewPointsChangedEvent(a, entry))
	return entry, nil
}

// Deactivate 停用帳戶（軟刪除，冪等）
func (a *Account) Deactivate(now time.Time) {
	if !a.isActive {
		return
	}
	a.isActive = false
	a.updatedAt = now
}

// Activate 重新啟用帳戶（冪等）
func (a *Account) Activate(now time.Time) {
	if a.isActive {
		return
	}
	a.isActive = true
	a.updatedAt = now
}

// ===========================
// 私有輔助方法
// ===========================

func (a *Account) ensureActive() error {
	if !a.isActive {
		return ErrAccountInactive.WithContext("user_id", a.userID.String())
	}
	return nil
}

// credit 增加可用積分；countsToLifetime 為 true 時同時增加累積積分並重算等級
func (a *Account) credit(
	historyType HistoryType,
	points PointsAmount,
	countsToLifetime bool,
	ref Reference,
	description string,
	now time.Time,
) *PointHistory {
	before := a.totalPoints.Value()
	a.totalPoints = a.totalPoints.Add(points)

	previousTier := a.tier
	if countsToLifetime {
		a.lifetimePoints = a.lifetimePoints.Add(points)
		a.tier = tier.ForLifetimePoints(a.lifetimePoints.Value())
	}
	a.updatedAt = now

	entry := a.newEntry(historyType, points.Value(), before, ref, description, now)
	a.events.Record(NewPointsChangedEvent(a, entry))
	if tier.Rank(a.tier) > tier.Rank(previousTier) {
		a.events.Record(NewTierUpgradedEvent(a, previousTier, now))
	}
	return entry
}

func (a *Account) newEntry(
	historyType HistoryType,
	delta int,
	before int,
	ref Reference,
	description string,
	now time.Time,
) *PointHistory {
	if ref.Type == "" {
		ref.Type = ReferenceSystem
	}
	return &PointHistory{
		historyID:     NewHistoryID(),
		accountID:     a.accountID,
		userID:        a.userID,
		historyType:   historyType,
		points:        delta,
		balanceBefore: before,
		balanceAfter:  before + delta,
		description:   description,
		reference:     ref,
		multiplier:    decimal.Zero,
		createdAt:     now,
	}
}
