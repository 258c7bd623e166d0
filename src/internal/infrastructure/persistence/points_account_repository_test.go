package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// ===========================
// Repository 整合測試
// ===========================
// 測試重點：
// 1. 錯誤映射（GORM errors → Domain errors）
// 2. 樂觀鎖（version 條件更新）
// 3. 流水查詢與對帳總和
// ===========================

func saveAccount(t *testing.T, repo *GORMAccountRepository) *points.Account {
	t.Helper()
	account, err := points.NewAccount(shared.NewUserID(), testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(nil, account))
	return account
}

// ===========================
// Test Group 1: 錯誤映射測試
// ===========================

// Test 1: FindByID NotFound - 映射到 Domain 錯誤
func TestGORMAccountRepository_FindByID_NotFound_MapsToErrAccountNotFound(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	repo := NewAccountRepository(db)

	// Act
	account, err := repo.FindByID(nil, points.NewAccountID())

	// Assert
	assert.Nil(t, account)
	assert.ErrorIs(t, err, points.ErrAccountNotFound)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, points.ErrCodeAccountNotFound, domainErr.Code)
}

// Test 2: 同一用戶第二個帳戶 - 唯一約束映射到 ErrAccountAlreadyExists
func TestGORMAccountRepository_Save_DuplicateUser_MapsToErrAccountAlreadyExists(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	repo := NewAccountRepository(db)
	first := saveAccount(t, repo)

	second, err := points.NewAccount(first.UserID(), testNow)
	require.NoError(t, err)

	// Act
	err = repo.Save(nil, second)

	// Assert
	assert.ErrorIs(t, err, points.ErrAccountAlreadyExists)
}

// Test 3: Update 不存在的帳戶 - ErrAccountNotFound
func TestGORMAccountRepository_Update_NotFound_MapsToErrAccountNotFound(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewAccountRepository(db)
	account, err := points.NewAccount(shared.NewUserID(), testNow)
	require.NoError(t, err)

	err = repo.Update(nil, account)

	assert.ErrorIs(t, err, points.ErrAccountNotFound)
}

// ===========================
// Test Group 2: 樂觀鎖
// ===========================

// Test 4: 兩份同版本的副本，只有第一個更新成功
func TestGORMAccountRepository_Update_StaleVersion_ReturnsConcurrentModification(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	repo := NewAccountRepository(db)
	saved := saveAccount(t, repo)

	copyA, err := repo.FindByUserID(nil, saved.UserID())
	require.NoError(t, err)
	copyB, err := repo.FindByUserID(nil, saved.UserID())
	require.NoError(t, err)

	_, err = copyA.AwardBonus(mustPoints(t, 50), points.Reference{}, "a", testNow)
	require.NoError(t, err)
	_, err = copyB.AwardBonus(mustPoints(t, 70), points.Reference{}, "b", testNow)
	require.NoError(t, err)

	// Act
	errA := repo.Update(nil, copyA)
	errB := repo.Update(nil, copyB)

	// Assert
	require.NoError(t, errA)
	assert.Equal(t, 2, copyA.Version())
	assert.ErrorIs(t, errB, shared.ErrConcurrentModification)

	reloaded, err := repo.FindByUserID(nil, saved.UserID())
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.TotalPoints().Value())
	assert.Equal(t, 2, reloaded.Version())
}

// Test 5: 同一聚合在同一事務中連續更新（version 逐次加一）
func TestGORMAccountRepository_Update_ConsecutiveUpdatesInTransaction(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	repo := NewAccountRepository(db)
	saved := saveAccount(t, repo)
	txManager := NewGORMTransactionManager(db)

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		account, err := repo.FindByUserID(tx, saved.UserID())
		if err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if _, err := account.AwardBonus(mustPoints(t, 200), points.Reference{}, "bonus", testNow); err != nil {
				return err
			}
			if err := repo.Update(tx, account); err != nil {
				return err
			}
		}
		return nil
	})

	// Assert
	require.NoError(t, err)
	reloaded, err := repo.FindByUserID(nil, saved.UserID())
	require.NoError(t, err)
	assert.Equal(t, 600, reloaded.TotalPoints().Value())
	assert.Equal(t, 4, reloaded.Version())
	assert.Equal(t, tier.Silver, reloaded.Tier())
}

// ===========================
// Test Group 3: 流水
// ===========================

// Test 6: List 按時間倒序、支持類型過濾與分頁
func TestGORMHistoryRepository_List_OrderAndFilter(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	accounts := NewAccountRepository(db)
	history := NewHistoryRepository(db)
	account := saveAccount(t, accounts)

	for i := 1; i <= 5; i++ {
		now := testNow.Add(time.Duration(i) * time.Minute)
		entry, err := account.AwardBonus(mustPoints(t, i*10), points.Reference{Type: points.ReferenceAdmin, ID: fmt.Sprintf("bonus-%d", i)}, "bonus", now)
		require.NoError(t, err)
		require.NoError(t, history.Append(nil, entry))
	}
	deducted, err := account.Deduct(mustPoints(t, 15), points.Reference{Type: points.ReferenceRedemption, ID: "r-1"}, "redeem", testNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, history.Append(nil, deducted))

	// Act
	page, total, err := history.List(nil, points.HistoryFilter{UserID: account.UserID(), Limit: 3})
	require.NoError(t, err)
	bonuses, bonusTotal, err := history.List(nil, points.HistoryFilter{UserID: account.UserID(), Type: points.HistoryBonus})
	require.NoError(t, err)

	// Assert
	assert.EqualValues(t, 6, total)
	require.Len(t, page, 3)
	assert.Equal(t, points.HistoryRedeem, page[0].Type())
	assert.Equal(t, -15, page[0].Points())
	assert.Equal(t, 50, page[1].Points())

	assert.EqualValues(t, 5, bonusTotal)
	assert.Len(t, bonuses, 5)
}

// Test 7: SumByUser 等於帳戶餘額；沒有流水時為 0
func TestGORMHistoryRepository_SumByUser(t *testing.T) {
	// Arrange
	db := SetupTestDB(t)
	accounts := NewAccountRepository(db)
	history := NewHistoryRepository(db)
	account := saveAccount(t, accounts)

	empty, err := history.SumByUser(nil, shared.NewUserID())
	require.NoError(t, err)
	assert.Equal(t, 0, empty)

	earned, err := account.AwardBonus(mustPoints(t, 300), points.Reference{}, "bonus", testNow)
	require.NoError(t, err)
	adjusted, err := account.Adjust(-500, points.Reference{Type: points.ReferenceAdmin}, "clamp", testNow)
	require.NoError(t, err)
	require.NoError(t, history.Append(nil, earned))
	require.NoError(t, history.Append(nil, adjusted))

	// Act
	sum, err := history.SumByUser(nil, account.UserID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, sum)
	assert.Equal(t, account.TotalPoints().Value(), sum)
}

func mustPoints(t *testing.T, v int) points.PointsAmount {
	t.Helper()
	p, err := points.NewPositivePointsAmount(v)
	require.NoError(t, err)
	return p
}
