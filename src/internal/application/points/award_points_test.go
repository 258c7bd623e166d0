package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

type pointsFixture struct {
	accounts  *MockAccountRepository
	history   *MockHistoryRepository
	publisher *MockEventPublisher
	clock     *shared.FixedClock

	award  *AwardPointsUseCase
	deduct *DeductPointsUseCase
	bonus  *AwardBonusUseCase
	adjust *AdjustPointsUseCase
}

func newPointsFixture(t *testing.T) *pointsFixture {
	t.Helper()
	f := &pointsFixture{
		accounts:  NewMockAccountRepository(),
		history:   NewMockHistoryRepository(),
		publisher: &MockEventPublisher{},
		clock:     &shared.FixedClock{Time: testNow},
	}
	calculator, err := points.NewPointsCalculationService(points.DefaultPointsPerUnit)
	require.NoError(t, err)

	guard := common.NewIdempotencyGuard(newMockIdempotencyRepository(), f.clock)
	dispatcher := common.NewEventDispatcher(f.publisher, nil)
	tx := NewMockTransactionManager()

	f.award = NewAwardPointsUseCase(f.accounts, f.history, calculator, guard, tx, dispatcher, f.clock)
	f.deduct = NewDeductPointsUseCase(f.accounts, f.history, guard, tx, dispatcher, f.clock)
	f.bonus = NewAwardBonusUseCase(f.accounts, f.history, guard, tx, dispatcher, f.clock)
	f.adjust = NewAdjustPointsUseCase(f.accounts, f.history, guard, tx, dispatcher, f.clock)
	return f
}

// ===========================
// Test Group 1: AwardPoints
// ===========================

// Test 1: 帳戶不存在時自動開戶；1000 THB → 100 點
func TestAwardPointsUseCase_OpensAccountAndAwards(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()

	// Act
	result, err := f.award.Execute(context.Background(), AwardPointsCommand{
		UserID:      userID.String(),
		Amount:      shared.MustMoney("1000"),
		ReferenceID: "tx-1",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, result.PointsAwarded)
	assert.Equal(t, 100, result.BasePoints)
	assert.Equal(t, 0, result.BonusPoints)
	assert.Equal(t, 100, result.TotalPoints)
	assert.Equal(t, "bronze", result.Tier)

	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	assert.Equal(t, points.HistoryEarn, entry.Type())
	assert.Equal(t, points.ReferenceTransaction, entry.Reference().Type)
	assert.Equal(t, "Earned from ฿1000.00 purchase", entry.Description())
	assert.Equal(t, 1, f.accounts.SaveCallCount)
}

// Test 2: silver 會員有 25% bonus，並回報升級
func TestAwardPointsUseCase_SilverBonus(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()
	_, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: userID.String(), Amount: shared.MustMoney("5000")})
	require.NoError(t, err)

	// Act
	result, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: userID.String(), Amount: shared.MustMoney("1000")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, result.BasePoints)
	assert.Equal(t, 25, result.BonusPoints)
	assert.Equal(t, "1.25", result.Multiplier)
	assert.Equal(t, 625, result.TotalPoints)
	assert.False(t, result.TierUpgraded)
}

// Test 3: 金額太小：不寫流水、不更新帳戶
func TestAwardPointsUseCase_ZeroAward(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()

	// Act
	result, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: userID.String(), Amount: shared.MustMoney("9.99")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.PointsAwarded)
	assert.Empty(t, result.HistoryID)
	assert.Empty(t, f.history.entries)
	assert.Equal(t, 0, f.accounts.UpdateCallCount)
}

// Test 4: 金額為 0 → ErrInvalidAmount
func TestAwardPointsUseCase_InvalidAmount(t *testing.T) {
	f := newPointsFixture(t)

	_, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: shared.NewUserID().String(), Amount: shared.ZeroMoney()})

	assert.ErrorIs(t, err, shared.ErrInvalidAmount)
}

// Test 5: 相同冪等鍵重放第一次的結果，不重複入帳
func TestAwardPointsUseCase_IdempotentReplay(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	cmd := AwardPointsCommand{UserID: shared.NewUserID().String(), Amount: shared.MustMoney("300"), IdempotencyKey: "award-1"}
	first, err := f.award.Execute(context.Background(), cmd)
	require.NoError(t, err)

	// Act
	second, err := f.award.Execute(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, first.HistoryID, second.HistoryID)
	assert.Equal(t, 30, second.PointsAwarded)
	assert.Equal(t, 30, second.TotalPoints)
	assert.Len(t, f.history.entries, 1)
}

// ===========================
// Test Group 2: DeductPoints
// ===========================

// Test 6: 扣減成功；累積積分不變
func TestDeductPointsUseCase_Success(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()
	_, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: userID.String(), Amount: shared.MustMoney("2000")})
	require.NoError(t, err)

	// Act
	result, err := f.deduct.Execute(context.Background(), DeductPointsCommand{UserID: userID.String(), Points: 150, Reason: "Coffee"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 150, result.PointsDeducted)
	assert.Equal(t, 50, result.NewBalance)

	account := f.accounts.accounts[userID.String()]
	assert.Equal(t, 200, account.LifetimePoints().Value())
	last := f.history.entries[len(f.history.entries)-1]
	assert.Equal(t, -150, last.Points())
	assert.Equal(t, points.ReferenceRedemption, last.Reference().Type)
}

// Test 7: 積分不足：不變更、不寫流水
func TestDeductPointsUseCase_InsufficientPoints(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()
	_, err := f.award.Execute(context.Background(), AwardPointsCommand{UserID: userID.String(), Amount: shared.MustMoney("500")})
	require.NoError(t, err)

	// Act
	_, err = f.deduct.Execute(context.Background(), DeductPointsCommand{UserID: userID.String(), Points: 51})

	// Assert
	assert.ErrorIs(t, err, points.ErrInsufficientPoints)
	assert.Equal(t, 50, f.accounts.accounts[userID.String()].TotalPoints().Value())
	assert.Len(t, f.history.entries, 1)
}

// Test 8: 帳戶不存在
func TestDeductPointsUseCase_AccountNotFound(t *testing.T) {
	f := newPointsFixture(t)

	_, err := f.deduct.Execute(context.Background(), DeductPointsCommand{UserID: shared.NewUserID().String(), Points: 1})

	assert.ErrorIs(t, err, points.ErrAccountNotFound)
}

// ===========================
// Test Group 3: Bonus / Adjust
// ===========================

// Test 9: bonus 計入累積積分並升級
func TestAwardBonusUseCase_CountsTowardTier(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()

	// Act
	result, err := f.bonus.Execute(context.Background(), AwardBonusCommand{UserID: userID.String(), Points: 500, Description: "Launch campaign"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 500, result.Applied)
	assert.Equal(t, 500, result.LifetimePoints)
	assert.Equal(t, "silver", result.Tier)
	assert.Equal(t, points.ReferenceSystem, f.history.entries[0].Reference().Type)

	var types []string
	for _, e := range f.publisher.Events {
		types = append(types, e.EventType())
	}
	assert.Contains(t, types, points.EventTierUpgraded)
}

// Test 10: 調整扣減超過餘額時 clamp，流水記錄實際差額
func TestAdjustPointsUseCase_ClampsAtZero(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()
	_, err := f.bonus.Execute(context.Background(), AwardBonusCommand{UserID: userID.String(), Points: 40})
	require.NoError(t, err)
	adminID := shared.NewUserID().String()

	// Act
	result, err := f.adjust.Execute(context.Background(), AdjustPointsCommand{UserID: userID.String(), Delta: -100, Reason: "fraud", AdminID: adminID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, -100, result.Requested)
	assert.Equal(t, -40, result.Applied)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, 40, result.LifetimePoints)

	last := f.history.entries[len(f.history.entries)-1]
	assert.Equal(t, points.HistoryAdjustment, last.Type())
	assert.Equal(t, points.ReferenceAdmin, last.Reference().Type)
	assert.Equal(t, adminID, last.Reference().ID)
}

// Test 11: 餘額已為 0 時扣減：不寫流水
func TestAdjustPointsUseCase_NothingToApply(t *testing.T) {
	// Arrange
	f := newPointsFixture(t)
	userID := shared.NewUserID()
	account, _ := points.NewAccount(userID, testNow)
	f.accounts.accounts[userID.String()] = account

	// Act
	result, err := f.adjust.Execute(context.Background(), AdjustPointsCommand{UserID: userID.String(), Delta: -5})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Empty(t, result.HistoryID)
	assert.Empty(t, f.history.entries)
}

// Test 12: delta 為 0
func TestAdjustPointsUseCase_ZeroDelta(t *testing.T) {
	f := newPointsFixture(t)

	_, err := f.adjust.Execute(context.Background(), AdjustPointsCommand{UserID: shared.NewUserID().String()})

	assert.ErrorIs(t, err, points.ErrInvalidPointsAmount)
}

// ===========================
// Mock 實作
// ===========================

type mockIdempotencyRepository struct {
	records map[string]shared.IdempotencyRecord
}

func newMockIdempotencyRepository() *mockIdempotencyRepository {
	return &mockIdempotencyRepository{records: make(map[string]shared.IdempotencyRecord)}
}

func (m *mockIdempotencyRepository) Find(_ shared.TransactionContext, key string) (*shared.IdempotencyRecord, error) {
	record, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *mockIdempotencyRepository) Save(_ shared.TransactionContext, record shared.IdempotencyRecord) error {
	if _, ok := m.records[record.Key]; ok {
		return shared.ErrDuplicateRequest
	}
	m.records[record.Key] = record
	return nil
}
