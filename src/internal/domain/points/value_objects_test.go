package points_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
)

// ===== PointsAmount 測試 =====

// Test 1: 負數積分
func TestNewPointsAmount_Negative_ReturnsError(t *testing.T) {
	_, err := points.NewPointsAmount(-1)

	assert.ErrorIs(t, err, points.ErrNegativePointsAmount)
}

// Test 2: 正數建構
func TestNewPositivePointsAmount(t *testing.T) {
	_, err := points.NewPositivePointsAmount(0)
	assert.ErrorIs(t, err, points.ErrInvalidPointsAmount)

	p, err := points.NewPositivePointsAmount(5)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Value())
}

// Test 3: 相減不足
func TestPointsAmount_Subtract_Insufficient(t *testing.T) {
	a, _ := points.NewPointsAmount(10)
	b, _ := points.NewPointsAmount(11)

	_, err := a.Subtract(b)

	assert.ErrorIs(t, err, points.ErrInsufficientPoints)
}

// Test 4: 乘以數量
func TestPointsAmount_Multiply(t *testing.T) {
	cost, _ := points.NewPointsAmount(150)

	total, err := cost.Multiply(3)
	require.NoError(t, err)
	assert.Equal(t, 450, total.Value())

	_, err = cost.Multiply(0)
	assert.ErrorIs(t, err, points.ErrInvalidPointsAmount)
}

// Test 5: 比較
func TestPointsAmount_Comparisons(t *testing.T) {
	a, _ := points.NewPointsAmount(10)
	b, _ := points.NewPointsAmount(20)

	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.GreaterThanOrEqual(a))
	assert.True(t, a.Add(a).Equals(b))
}

// ===== HistoryType / ReferenceType 解析 =====

// Test 6: 流水類型
func TestParseHistoryType(t *testing.T) {
	got, err := points.ParseHistoryType("bonus")
	require.NoError(t, err)
	assert.Equal(t, points.HistoryBonus, got)

	_, err = points.ParseHistoryType("gift")
	assert.ErrorIs(t, err, points.ErrInvalidHistoryType)
}

// Test 7: 關聯類型，空字串視為 system
func TestParseReferenceType(t *testing.T) {
	got, err := points.ParseReferenceType("")
	require.NoError(t, err)
	assert.Equal(t, points.ReferenceSystem, got)

	_, err = points.ParseReferenceType("invoice")
	assert.ErrorIs(t, err, points.ErrInvalidReferenceType)
}
