package shared

import (
	"github.com/shopspring/decimal"
)

// MoneyScale 貨幣最小單位的小數位數（THB: satang）
const MoneyScale = 2

var minorFactor = decimal.New(1, MoneyScale)

// MaxMoney 單筆金額上限（10^15）；兩筆相加的最小單位仍在 int64 範圍內
var MaxMoney = decimal.New(1, 15)

// Money 金額值對象
//
// 不變條件：
// - 值 >= 0（負數金額沒有業務意義，方向由交易類型表達）
// - 最多兩位小數（持久化為最小單位 int64，SQL 運算精確）
type Money struct {
	value decimal.Decimal
}

// ZeroMoney 零金額
func ZeroMoney() Money {
	return Money{value: decimal.Zero}
}

// NewMoney 從 decimal 建立金額（checked）
func NewMoney(value decimal.Decimal) (Money, error) {
	if value.IsNegative() {
		return Money{}, ErrInvalidAmount.WithContext("amount", value.String(), "reason", "negative")
	}
	if !value.Equal(value.Truncate(MoneyScale)) {
		return Money{}, ErrInvalidAmount.WithContext("amount", value.String(), "reason", "too many decimal places")
	}
	if value.GreaterThan(MaxMoney) {
		return Money{}, ErrInvalidAmount.WithContext("amount", value.String(), "reason", "exceeds maximum", "max", MaxMoney.String())
	}
	return Money{value: value}, nil
}

// NewPositiveMoney 交易金額必須 > 0
func NewPositiveMoney(value decimal.Decimal) (Money, error) {
	m, err := NewMoney(value)
	if err != nil {
		return Money{}, err
	}
	if m.IsZero() {
		return Money{}, ErrInvalidAmount.WithContext("amount", value.String(), "reason", "must be positive")
	}
	return m, nil
}

// MustMoney 僅用於常量與測試
func MustMoney(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromMinor 從最小單位（int64）重建金額
//
// 已持久化的餘額可能是多筆金額的累計，不套用 MaxMoney。
func MoneyFromMinor(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, ErrInvalidAmount.WithContext("amount", minor, "reason", "negative")
	}
	return Money{value: decimal.New(minor, -MoneyScale)}, nil
}

// Minor 轉換為最小單位
func (m Money) Minor() int64 {
	return m.value.Mul(minorFactor).IntPart()
}

// Decimal 底層數值
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// String 固定兩位小數
func (m Money) String() string {
	return m.value.StringFixed(MoneyScale)
}

// IsZero 是否為零
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// Add 相加
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

// Sub 相減；結果為負時返回 false（調用者決定錯誤類型）
func (m Money) Sub(other Money) (Money, bool) {
	result := m.value.Sub(other.value)
	if result.IsNegative() {
		return Money{}, false
	}
	return Money{value: result}, true
}

// GreaterThan 大於
func (m Money) GreaterThan(other Money) bool {
	return m.value.GreaterThan(other.value)
}

// LessThan 小於
func (m Money) LessThan(other Money) bool {
	return m.value.LessThan(other.value)
}

// Equals 數值相等（1 == 1.00）
func (m Money) Equals(other Money) bool {
	return m.value.Equal(other.value)
}
