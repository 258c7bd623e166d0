package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// ===========================
// Mapper 測試
// ===========================

// Test 1: 有效 Model 轉換為聚合，等級由 lifetime_points 推導
func TestAccountToDomain_ValidModel_DerivesTier(t *testing.T) {
	// Arrange
	model := &AccountModel{
		ID:             points.NewAccountID().String(),
		UserID:         shared.NewUserID().String(),
		TotalPoints:    120,
		LifetimePoints: 2500,
		Tier:           "bronze", // 冗餘欄位過期也不影響
		IsActive:       true,
		Version:        7,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}

	// Act
	account, err := accountToDomain(model)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.ID, account.AccountID().String())
	assert.Equal(t, 120, account.TotalPoints().Value())
	assert.Equal(t, tier.Gold, account.Tier())
	assert.Equal(t, 7, account.Version())
}

// Test 2: 負數積分視為資料損壞
func TestAccountToDomain_NegativePoints_ReturnsError(t *testing.T) {
	model := &AccountModel{
		ID:             points.NewAccountID().String(),
		UserID:         shared.NewUserID().String(),
		TotalPoints:    -1,
		LifetimePoints: 0,
		Version:        1,
	}

	account, err := accountToDomain(model)

	assert.Nil(t, account)
	assert.ErrorIs(t, err, points.ErrCorruptedAccount)
}

// Test 3: 無效 UUID
func TestAccountToDomain_InvalidIDs_ReturnsError(t *testing.T) {
	_, err := accountToDomain(&AccountModel{ID: "not-a-uuid", UserID: shared.NewUserID().String()})
	assert.ErrorIs(t, err, points.ErrInvalidAccountID)

	_, err = accountToDomain(&AccountModel{ID: points.NewAccountID().String(), UserID: "not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidUserID)
}

// Test 4: 聚合轉換為 Model，時間統一為 UTC
func TestAccountToGORM_ConvertsToUTC(t *testing.T) {
	// Arrange
	local := testNow.In(time.FixedZone("ICT", 7*3600))
	account, err := points.NewAccount(shared.NewUserID(), local)
	require.NoError(t, err)

	// Act
	model := accountToGORM(account)

	// Assert
	assert.Equal(t, account.UserID().String(), model.UserID)
	assert.Equal(t, "bronze", model.Tier)
	assert.Equal(t, 1, model.Version)
	assert.Equal(t, "UTC", model.CreatedAt.Location().String())
	assert.True(t, model.CreatedAt.Equal(testNow))
}

// Test 5: 流水往返保留倍率與明細
func TestHistoryMapper_PreservesBreakdown(t *testing.T) {
	// Arrange
	account, err := points.NewAccount(shared.NewUserID(), testNow)
	require.NoError(t, err)
	award := points.Award{Base: 100, Bonus: 25, Multiplier: decimal.RequireFromString("1.25"), Tier: tier.Silver}
	entry, err := account.Earn(award, points.Reference{Type: points.ReferenceTransaction, ID: "tx-9"}, "load", testNow)
	require.NoError(t, err)

	// Act
	restored, err := historyToDomain(historyToGORM(entry))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 125, restored.Points())
	assert.Equal(t, 100, restored.BasePoints())
	assert.Equal(t, 25, restored.BonusPoints())
	assert.True(t, restored.Multiplier().Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, points.Reference{Type: points.ReferenceTransaction, ID: "tx-9"}, restored.Reference())
}
