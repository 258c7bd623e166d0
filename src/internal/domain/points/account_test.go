package points_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func mustPoints(t *testing.T, v int) points.PointsAmount {
	t.Helper()
	p, err := points.NewPointsAmount(v)
	require.NoError(t, err)
	return p
}

// reconstructAccount 建立指定餘額的帳戶
func reconstructAccount(t *testing.T, total, lifetime int) *points.Account {
	t.Helper()
	account, err := points.ReconstructAccount(
		points.NewAccountID(),
		shared.NewUserID(),
		total,
		lifetime,
		true,
		1,
		testNow,
		testNow,
	)
	require.NoError(t, err)
	return account
}

// ===========================
// Account 建構測試
// ===========================

// Test 1: NewAccount 零餘額、bronze
func TestNewAccount_ValidUserID_Success(t *testing.T) {
	// Arrange
	userID := shared.NewUserID()

	// Act
	account, err := points.NewAccount(userID, testNow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, account.UserID())
	assert.False(t, account.AccountID().IsEmpty())
	assert.Equal(t, 0, account.TotalPoints().Value())
	assert.Equal(t, 0, account.LifetimePoints().Value())
	assert.Equal(t, tier.Bronze, account.Tier())
	assert.True(t, account.IsActive())
	assert.Equal(t, 1, account.Version())
}

// Test 2: 空 UserID
func TestNewAccount_EmptyUserID_ReturnsError(t *testing.T) {
	account, err := points.NewAccount(shared.UserID{}, testNow)

	assert.Nil(t, account)
	assert.ErrorIs(t, err, shared.ErrInvalidUserID)
}

// Test 3: 建立時記錄 AccountCreated 事件
func TestNewAccount_RecordsAccountCreatedEvent(t *testing.T) {
	account, _ := points.NewAccount(shared.NewUserID(), testNow)

	events := account.PullEvents()

	require.Len(t, events, 1)
	assert.Equal(t, points.EventAccountCreated, events[0].EventType())
	assert.Empty(t, account.PullEvents())
}

// Test 4: 重建時 tier 由 lifetimePoints 推導
func TestReconstructAccount_DerivesTierFromLifetime(t *testing.T) {
	account := reconstructAccount(t, 100, 2500)

	assert.Equal(t, tier.Gold, account.Tier())
	assert.Empty(t, account.PullEvents(), "重建不產生事件")
}

// Test 5: 重建時負數積分視為資料損壞
func TestReconstructAccount_NegativePoints_Corrupted(t *testing.T) {
	_, err := points.ReconstructAccount(points.NewAccountID(), shared.NewUserID(), -1, 0, true, 1, testNow, testNow)

	assert.ErrorIs(t, err, points.ErrCorruptedAccount)
}

// ===========================
// Earn 測試
// ===========================

// Test 6: 499 → 500 升級 silver
func TestAccount_Earn_CrossesSilverThreshold(t *testing.T) {
	// Arrange
	account := reconstructAccount(t, 499, 499)
	award := points.Award{Base: 1, Tier: tier.Bronze}

	// Act
	entry, err := account.Earn(award, points.Reference{Type: points.ReferenceTransaction, ID: "tx-1"}, "load", testNow)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 500, account.LifetimePoints().Value())
	assert.Equal(t, 500, account.TotalPoints().Value())
	assert.Equal(t, tier.Silver, account.Tier())

	assert.Equal(t, points.HistoryEarn, entry.Type())
	assert.Equal(t, 1, entry.Points())
	assert.Equal(t, 499, entry.BalanceBefore())
	assert.Equal(t, 500, entry.BalanceAfter())

	events := account.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, points.EventPointsEarned, events[0].EventType())
	assert.Equal(t, points.EventTierUpgraded, events[1].EventType())
	assert.Equal(t, "silver", events[1].Payload()["to"])
}

// Test 7: 零積分不產生流水
func TestAccount_Earn_ZeroAward_NoOp(t *testing.T) {
	account := reconstructAccount(t, 10, 10)

	entry, err := account.Earn(points.Award{}, points.Reference{}, "tiny", testNow)

	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 10, account.TotalPoints().Value())
	assert.Empty(t, account.PullEvents())
}

// Test 8: 停用帳戶不能獲得積分
func TestAccount_Earn_InactiveAccount(t *testing.T) {
	account := reconstructAccount(t, 0, 0)
	account.Deactivate(testNow)

	_, err := account.Earn(points.Award{Base: 5}, points.Reference{}, "", testNow)

	assert.ErrorIs(t, err, points.ErrAccountInactive)
}

// ===========================
// Deduct 測試
// ===========================

// Test 9: 扣減不影響累積積分與等級
func TestAccount_Deduct_KeepsLifetimeAndTier(t *testing.T) {
	// Arrange
	account := reconstructAccount(t, 600, 600)

	// Act
	entry, err := account.Deduct(mustPoints(t, 550), points.Reference{Type: points.ReferenceRedemption, ID: "r-1"}, "Coffee", testNow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, account.TotalPoints().Value())
	assert.Equal(t, 600, account.LifetimePoints().Value())
	assert.Equal(t, tier.Silver, account.Tier())
	assert.Equal(t, points.HistoryRedeem, entry.Type())
	assert.Equal(t, -550, entry.Points())
	assert.Equal(t, points.ReferenceRedemption, entry.Reference().Type)
}

// Test 10: 餘額不足，狀態不變
func TestAccount_Deduct_InsufficientPoints_NoMutation(t *testing.T) {
	account := reconstructAccount(t, 99, 99)

	entry, err := account.Deduct(mustPoints(t, 100), points.Reference{}, "too much", testNow)

	assert.Nil(t, entry)
	assert.ErrorIs(t, err, points.ErrInsufficientPoints)
	assert.Equal(t, 99, account.TotalPoints().Value())
	assert.Empty(t, account.PullEvents())
}

// Test 11: 扣減 0 點無效
func TestAccount_Deduct_Zero_Invalid(t *testing.T) {
	account := reconstructAccount(t, 10, 10)

	_, err := account.Deduct(mustPoints(t, 0), points.Reference{}, "", testNow)

	assert.ErrorIs(t, err, points.ErrInvalidPointsAmount)
}

// ===========================
// Bonus / Refund / Adjust 測試
// ===========================

// Test 12: 獎勵積分計入累積
func TestAccount_AwardBonus_CountsTowardLifetime(t *testing.T) {
	account := reconstructAccount(t, 0, 1990)

	entry, err := account.AwardBonus(mustPoints(t, 10), points.Reference{Type: points.ReferenceAdmin}, "birthday", testNow)

	require.NoError(t, err)
	assert.Equal(t, points.HistoryBonus, entry.Type())
	assert.Equal(t, 2000, account.LifetimePoints().Value())
	assert.Equal(t, tier.Gold, account.Tier())
}

// Test 13: 退回積分不計入累積
func TestAccount_Refund_DoesNotTouchLifetime(t *testing.T) {
	account := reconstructAccount(t, 0, 100)

	entry, err := account.Refund(mustPoints(t, 100), points.Reference{Type: points.ReferenceRedemption, ID: "r-1"}, "cancelled", testNow)

	require.NoError(t, err)
	assert.Equal(t, points.HistoryRefund, entry.Type())
	assert.Equal(t, 100, account.TotalPoints().Value())
	assert.Equal(t, 100, account.LifetimePoints().Value())
}

// Test 14: 調整扣減超過餘額時歸零，流水記錄實際差額
func TestAccount_Adjust_ClampsAtZero(t *testing.T) {
	account := reconstructAccount(t, 30, 30)

	entry, err := account.Adjust(-50, points.Reference{Type: points.ReferenceAdmin}, "correction", testNow)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 0, account.TotalPoints().Value())
	assert.Equal(t, -30, entry.Points())
	assert.Equal(t, 30, account.LifetimePoints().Value())
}

// Test 15: 調整增加
func TestAccount_Adjust_Credit(t *testing.T) {
	account := reconstructAccount(t, 30, 30)

	entry, err := account.Adjust(20, points.Reference{Type: points.ReferenceAdmin}, "goodwill", testNow)

	require.NoError(t, err)
	assert.Equal(t, 50, account.TotalPoints().Value())
	assert.Equal(t, 20, entry.Points())
	assert.Equal(t, 30, account.LifetimePoints().Value(), "調整不影響累積積分")
}

// Test 16: 餘額為 0 時再扣減，不產生流水
func TestAccount_Adjust_NothingToApply(t *testing.T) {
	account := reconstructAccount(t, 0, 0)

	entry, err := account.Adjust(-5, points.Reference{}, "", testNow)

	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = account.Adjust(0, points.Reference{}, "", testNow)
	assert.ErrorIs(t, err, points.ErrInvalidPointsAmount)
}

// Test 17: 流水總和等於可用積分（對帳性質）
func TestAccount_LedgerReconciles(t *testing.T) {
	account, _ := points.NewAccount(shared.NewUserID(), testNow)
	var entries []*points.PointHistory
	add := func(e *points.PointHistory, err error) {
		require.NoError(t, err)
		if e != nil {
			entries = append(entries, e)
		}
	}

	add(account.Earn(points.Award{Base: 300}, points.Reference{}, "", testNow))
	add(account.Deduct(mustPoints(t, 120), points.Reference{}, "", testNow))
	add(account.AwardBonus(mustPoints(t, 15), points.Reference{}, "", testNow))
	add(account.Adjust(-500, points.Reference{}, "", testNow))
	add(account.Refund(mustPoints(t, 40), points.Reference{}, "", testNow))

	sum := 0
	for _, e := range entries {
		sum += e.Points()
		assert.Equal(t, e.Points(), e.BalanceAfter()-e.BalanceBefore())
	}
	assert.Equal(t, account.TotalPoints().Value(), sum)
	assert.Equal(t, tier.ForLifetimePoints(account.LifetimePoints().Value()), account.Tier())
}

// Test 18: 停用/啟用冪等
func TestAccount_DeactivateActivate_Idempotent(t *testing.T) {
	account := reconstructAccount(t, 0, 0)

	account.Deactivate(testNow)
	account.Deactivate(testNow)
	assert.False(t, account.IsActive())

	account.Activate(testNow)
	account.Activate(testNow)
	assert.True(t, account.IsActive())
}
