package reward_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func coffeeSpec() reward.Spec {
	return reward.Spec{
		Name:       "Free Coffee",
		Category:   "food",
		PointsCost: 100,
		Stock:      reward.UnlimitedStock,
	}
}

func newReward(t *testing.T, mutate func(*reward.Spec)) *reward.Reward {
	t.Helper()
	spec := coffeeSpec()
	if mutate != nil {
		mutate(&spec)
	}
	r, err := reward.NewReward(spec, testNow)
	require.NoError(t, err)
	return r
}

// ===========================
// Reward
// ===========================

// Test 1: 欄位驗證
func TestNewReward_Validation(t *testing.T) {
	until := testNow.Add(-time.Hour)
	tests := []struct {
		name   string
		mutate func(*reward.Spec)
	}{
		{"缺少名稱", func(s *reward.Spec) { s.Name = " " }},
		{"缺少分類", func(s *reward.Spec) { s.Category = "" }},
		{"積分為 0", func(s *reward.Spec) { s.PointsCost = 0 }},
		{"庫存小於 -1", func(s *reward.Spec) { s.Stock = -2 }},
		{"未知等級", func(s *reward.Spec) { s.RequiredTier = "diamond" }},
		{"有效期顛倒", func(s *reward.Spec) { s.ValidFrom = &testNow; s.ValidUntil = &until }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := coffeeSpec()
			tt.mutate(&spec)

			_, err := reward.NewReward(spec, testNow)

			assert.ErrorIs(t, err, reward.ErrInvalidReward)
		})
	}
}

// Test 2: 可用性（啟用、庫存、有效期）
func TestReward_IsAvailable(t *testing.T) {
	from := testNow.Add(time.Hour)
	until := testNow.Add(-time.Hour)

	assert.True(t, newReward(t, nil).IsAvailable(testNow))
	assert.False(t, newReward(t, func(s *reward.Spec) { s.Stock = 0 }).IsAvailable(testNow))
	assert.True(t, newReward(t, func(s *reward.Spec) { s.Stock = 1 }).IsAvailable(testNow))
	assert.False(t, newReward(t, func(s *reward.Spec) { s.ValidFrom = &from }).IsAvailable(testNow))
	assert.False(t, newReward(t, func(s *reward.Spec) { s.ValidUntil = &until }).IsAvailable(testNow))

	inactive := newReward(t, nil)
	inactive.Deactivate(testNow)
	assert.False(t, inactive.IsAvailable(testNow))
}

// Test 3: 庫存足夠才可兌換多件
func TestReward_IsAvailableFor_Quantity(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) { s.Stock = 2 })

	assert.True(t, r.IsAvailableFor(2, testNow))
	assert.False(t, r.IsAvailableFor(3, testNow))
}

// Test 4: 扣庫存與累計兌換數
func TestReward_Reserve(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) { s.Stock = 1 })

	require.NoError(t, r.Reserve(1, testNow))
	assert.Equal(t, 0, r.Stock())
	assert.Equal(t, 1, r.RedeemCount())

	err := r.Reserve(1, testNow)
	assert.ErrorIs(t, err, reward.ErrRewardUnavailable)
	assert.Equal(t, 0, r.Stock())
	assert.Equal(t, 1, r.RedeemCount())

	r.RestoreStock(1, testNow)
	assert.Equal(t, 1, r.Stock())
	assert.Equal(t, 1, r.RedeemCount(), "redeemCount 只增不減")
}

// Test 5: 不限量只累計兌換數
func TestReward_Reserve_Unlimited(t *testing.T) {
	r := newReward(t, nil)

	require.NoError(t, r.Reserve(5, testNow))
	r.RestoreStock(5, testNow)

	assert.Equal(t, reward.UnlimitedStock, r.Stock())
	assert.Equal(t, 5, r.RedeemCount())
}

// ===========================
// 兌換資格
// ===========================

// Test 6: 依序檢查，第一個失敗原因決定錯誤
func TestCheckEligibility_Order(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) {
		s.Stock = 0
		s.RequiredTier = tier.Gold
	})

	e := reward.CheckEligibility(reward.Holder{TotalPoints: 10, Tier: tier.Bronze}, r, 1, testNow)

	assert.False(t, e.CanRedeem)
	assert.Equal(t, []reward.Reason{reward.ReasonUnavailable, reward.ReasonInsufficientPoints, reward.ReasonTierNotMet}, e.Reasons)
	assert.ErrorIs(t, e.Err(r), reward.ErrRewardUnavailable)
}

// Test 7: 積分不足
func TestCheckEligibility_InsufficientPoints(t *testing.T) {
	r := newReward(t, nil)

	e := reward.CheckEligibility(reward.Holder{TotalPoints: 99, Tier: tier.Bronze}, r, 1, testNow)

	assert.Equal(t, 99, e.UserPoints)
	assert.Equal(t, 100, e.PointsCost)
	assert.True(t, e.IsAvailable)
	assert.ErrorIs(t, e.Err(r), points.ErrInsufficientPoints)
}

// Test 8: 等級不足
func TestCheckEligibility_TierNotMet(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) { s.RequiredTier = tier.Silver })

	e := reward.CheckEligibility(reward.Holder{TotalPoints: 1000, Tier: tier.Bronze}, r, 1, testNow)
	assert.ErrorIs(t, e.Err(r), reward.ErrTierNotMet)

	e = reward.CheckEligibility(reward.Holder{TotalPoints: 1000, Tier: tier.Platinum}, r, 1, testNow)
	assert.True(t, e.CanRedeem)
	assert.Empty(t, e.Reasons)
	assert.NoError(t, e.Err(r))
}

// Test 9: 剛好足夠的積分
func TestCheckEligibility_ExactlyAffordable(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) { s.PointsCost = 50 })

	e := reward.CheckEligibility(reward.Holder{TotalPoints: 150, Tier: tier.Bronze}, r, 3, testNow)

	assert.True(t, e.CanRedeem)
	assert.Equal(t, 150, e.PointsCost)
}

// ===========================
// Redemption
// ===========================

func newRedemption(t *testing.T) *reward.Redemption {
	t.Helper()
	r := newReward(t, nil)
	red, err := reward.NewRedemption(shared.NewUserID(), r, 2, "RDMTEST01", nil, "", 0, testNow)
	require.NoError(t, err)
	return red
}

// Test 10: 價格快照與預設有效期
func TestNewRedemption_SnapshotsPrice(t *testing.T) {
	r := newReward(t, nil)
	red, err := reward.NewRedemption(shared.NewUserID(), r, 2, "RDMTEST01", &reward.DeliveryAddress{Recipient: "Somchai"}, "leave at door", 0, testNow)
	require.NoError(t, err)

	spec := r.Spec()
	spec.PointsCost = 999
	require.NoError(t, r.Update(spec, testNow))

	assert.Equal(t, 200, red.PointsSpent())
	assert.Equal(t, reward.StatusPending, red.Status())
	assert.Equal(t, testNow.Add(30*24*time.Hour), red.ExpiresAt())
	assert.Equal(t, "Somchai", red.DeliveryAddress().Recipient)

	events := red.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, reward.EventRewardRedeemed, events[0].EventType())
}

// Test 11: 正常流程 pending → processing → completed
func TestRedemption_HappyPath(t *testing.T) {
	red := newRedemption(t)

	require.NoError(t, red.Process(testNow))
	require.NoError(t, red.Complete(testNow))

	assert.Equal(t, reward.StatusCompleted, red.Status())
	require.NotNil(t, red.UsedAt())
}

// Test 12: 不允許的轉換
func TestRedemption_InvalidTransitions(t *testing.T) {
	red := newRedemption(t)

	assert.ErrorIs(t, red.Complete(testNow), reward.ErrInvalidRedemptionTransition, "pending 不能直接完成")

	require.NoError(t, red.Cancel(testNow))
	assert.ErrorIs(t, red.Process(testNow), reward.ErrInvalidRedemptionTransition)
	assert.ErrorIs(t, red.Expire(testNow), reward.ErrInvalidRedemptionTransition)
	assert.ErrorIs(t, red.Cancel(testNow), reward.ErrInvalidRedemptionTransition)
}

// Test 13: 過期判斷
func TestRedemption_IsExpiredAt(t *testing.T) {
	red := newRedemption(t)

	assert.False(t, red.IsExpiredAt(testNow.Add(29*24*time.Hour)))
	assert.True(t, red.IsExpiredAt(testNow.Add(31*24*time.Hour)))

	require.NoError(t, red.Expire(testNow.Add(31*24*time.Hour)))
	assert.False(t, red.IsExpiredAt(testNow.Add(40*24*time.Hour)), "已結束的兌換不再過期")
}

// Test 14: 狀態解析
func TestParseStatus(t *testing.T) {
	_, err := reward.ParseStatus("shipped")
	assert.ErrorIs(t, err, reward.ErrInvalidRedemptionStatus)
}

// ===========================
// 兌換件數上限
// ===========================

// Test 15: 超大件數不可溢位成小額積分
func TestReward_QuantityOverflowRejected(t *testing.T) {
	// Arrange
	r := newReward(t, func(s *reward.Spec) { s.PointsCost = 3 })
	huge := 6148914691236517206

	// Act
	_, costErr := r.TotalCost(huge)
	reserveErr := r.Reserve(huge, testNow)
	e := reward.CheckEligibility(reward.Holder{TotalPoints: 10, Tier: tier.Bronze}, r, huge, testNow)
	_, redemptionErr := reward.NewRedemption(shared.NewUserID(), r, huge, "RDMTEST02", nil, "", 0, testNow)

	// Assert
	assert.ErrorIs(t, costErr, reward.ErrInvalidQuantity)
	assert.ErrorIs(t, reserveErr, reward.ErrInvalidQuantity)
	assert.Equal(t, 0, r.RedeemCount())
	assert.False(t, e.CanRedeem)
	assert.Equal(t, []reward.Reason{reward.ReasonInvalidQuantity}, e.Reasons)
	assert.ErrorIs(t, e.Err(r), reward.ErrInvalidQuantity)
	assert.ErrorIs(t, redemptionErr, reward.ErrInvalidQuantity)
}

// Test 16: 件數上限邊界
func TestReward_MaxRedeemQuantity(t *testing.T) {
	r := newReward(t, func(s *reward.Spec) { s.PointsCost = 1 })

	cost, err := r.TotalCost(reward.MaxRedeemQuantity)
	require.NoError(t, err)
	assert.Equal(t, reward.MaxRedeemQuantity, cost)

	_, err = r.TotalCost(reward.MaxRedeemQuantity + 1)
	assert.ErrorIs(t, err, reward.ErrInvalidQuantity)
}
