package points

import "fmt"

// PointsAmount 積分數量值對象
// 設計原則：值對象不可變、自我驗證
type PointsAmount struct {
	value int
}

// NewPointsAmount 建構函數（checked 版本）
//
// 建構約束：積分數量必須 >= 0（方向由流水類型表達）
func NewPointsAmount(value int) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, fmt.Errorf(
			"%w: attempted to create PointsAmount with value %d",
			ErrNegativePointsAmount,
			value,
		)
	}
	return PointsAmount{value: value}, nil
}

// NewPositivePointsAmount 扣減、兌換、獎勵等操作的數量必須 > 0
func NewPositivePointsAmount(value int) (PointsAmount, error) {
	if value <= 0 {
		return PointsAmount{}, ErrInvalidPointsAmount.WithContext("points", value)
	}
	return PointsAmount{value: value}, nil
}

// newPointsAmountUnchecked 內部建構函數（unchecked 版本）
//
// 前提條件：調用者必須保證 value >= 0
func newPointsAmountUnchecked(value int) PointsAmount {
	return PointsAmount{value: value}
}

// Value 獲取積分數量
func (p PointsAmount) Value() int {
	return p.value
}

// IsZero 是否為零
func (p PointsAmount) IsZero() bool {
	return p.value == 0
}

// Add 相加（返回新的 PointsAmount，保持不變性）
func (p PointsAmount) Add(other PointsAmount) PointsAmount {
	return newPointsAmountUnchecked(p.value + other.value)
}

// Subtract 相減（返回新的 PointsAmount）
// 業務規則：不能扣除超過當前數量的積分
func (p PointsAmount) Subtract(other PointsAmount) (PointsAmount, error) {
	if p.value < other.value {
		return PointsAmount{}, ErrInsufficientPoints.WithContext(
			"requested", other.value,
			"available", p.value,
		)
	}
	return newPointsAmountUnchecked(p.value - other.value), nil
}

// Multiply 乘以數量（兌換 pointsCost × quantity）
func (p PointsAmount) Multiply(n int) (PointsAmount, error) {
	if n <= 0 {
		return PointsAmount{}, ErrInvalidPointsAmount.WithContext("multiplier", n)
	}
	return newPointsAmountUnchecked(p.value * n), nil
}

// Equals 比較兩個 PointsAmount 是否相等
func (p PointsAmount) Equals(other PointsAmount) bool {
	return p.value == other.value
}

// GreaterThan 判斷是否大於另一個 PointsAmount
func (p PointsAmount) GreaterThan(other PointsAmount) bool {
	return p.value > other.value
}

// LessThan 判斷是否小於另一個 PointsAmount
func (p PointsAmount) LessThan(other PointsAmount) bool {
	return p.value < other.value
}

// GreaterThanOrEqual 判斷是否大於等於另一個 PointsAmount
func (p PointsAmount) GreaterThanOrEqual(other PointsAmount) bool {
	return p.value >= other.value
}

// ===========================
// HistoryType 積分流水類型
// ===========================

// HistoryType 積分流水類型
type HistoryType string

// 流水類型
const (
	HistoryEarn       HistoryType = "earn"
	HistoryRedeem     HistoryType = "redeem"
	HistoryExpire     HistoryType = "expire"
	HistoryAdjustment HistoryType = "adjustment"
	HistoryBonus      HistoryType = "bonus"
	HistoryRefund     HistoryType = "refund"
)

// ParseHistoryType 解析流水類型
func ParseHistoryType(s string) (HistoryType, error) {
	switch t := HistoryType(s); t {
	case HistoryEarn, HistoryRedeem, HistoryExpire, HistoryAdjustment, HistoryBonus, HistoryRefund:
		return t, nil
	}
	return "", ErrInvalidHistoryType.WithContext("input", s)
}

// ===========================
// Reference 流水關聯
// ===========================

// ReferenceType 流水關聯的來源類型
type ReferenceType string

// 關聯類型
const (
	ReferenceTransaction ReferenceType = "transaction"
	ReferenceRedemption  ReferenceType = "redemption"
	ReferenceAdmin       ReferenceType = "admin"
	ReferenceSystem      ReferenceType = "system"
)

// ParseReferenceType 解析關聯類型；空字串視為 system
func ParseReferenceType(s string) (ReferenceType, error) {
	switch t := ReferenceType(s); t {
	case ReferenceTransaction, ReferenceRedemption, ReferenceAdmin, ReferenceSystem:
		return t, nil
	case "":
		return ReferenceSystem, nil
	}
	return "", ErrInvalidReferenceType.WithContext("input", s)
}

// Reference 流水關聯（卡片交易、兌換記錄、管理員操作）
type Reference struct {
	Type ReferenceType
	ID   string // 可為空
}
