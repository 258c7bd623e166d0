package points

import (
	"github.com/shopspring/decimal"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// DefaultPointsPerUnit 每 1 單位貨幣獲得 0.1 點（10 THB = 1 點）
var DefaultPointsPerUnit = decimal.RequireFromString("0.1")

// ===========================
// Award 積分計算結果
// ===========================

// Award 一次消費/儲值的積分計算結果
//
// Base 與 Bonus 分開保存，寫入流水時作為明細，方便對帳。
type Award struct {
	Base       int
	Bonus      int
	Multiplier decimal.Decimal
	Tier       tier.Tier // 計算時使用的等級
}

// Total 總獲得積分
func (a Award) Total() int {
	return a.Base + a.Bonus
}

// IsZero 金額太小，無積分
func (a Award) IsZero() bool {
	return a.Total() == 0
}

// ===========================
// PointsCalculationService 領域服務
// ===========================

// PointsCalculationService 積分計算領域服務
//
// 無狀態（pointsPerUnit 建構後不變），可在多個 goroutine 間共享。
type PointsCalculationService struct {
	pointsPerUnit decimal.Decimal
}

// NewPointsCalculationService 建構函數
func NewPointsCalculationService(pointsPerUnit decimal.Decimal) (*PointsCalculationService, error) {
	if !pointsPerUnit.IsPositive() {
		return nil, ErrInvalidPointsPolicy.WithContext("points_per_unit", pointsPerUnit.String())
	}
	return &PointsCalculationService{pointsPerUnit: pointsPerUnit}, nil
}

// PointsPerUnit 每單位金額的積分
func (s *PointsCalculationService) PointsPerUnit() decimal.Decimal {
	return s.pointsPerUnit
}

// CalculateAward 根據金額與會員等級計算積分
//
// 業務規則：
// - base  = floor(amount × pointsPerUnit)
// - bonus = floor(base × (multiplier(tier) − 1))
// - 全程使用 decimal，避免 1.25 之類倍率的浮點誤差
func (s *PointsCalculationService) CalculateAward(amount shared.Money, t tier.Tier) Award {
	multiplier := tier.Multiplier(t)

	base := amount.Decimal().Mul(s.pointsPerUnit).Floor()
	bonus := base.Mul(multiplier.Sub(decimal.NewFromInt(1))).Floor()

	award := Award{
		Base:       int(base.IntPart()),
		Bonus:      int(bonus.IntPart()),
		Multiplier: multiplier,
		Tier:       t,
	}
	if award.Bonus < 0 {
		award.Bonus = 0
	}
	return award
}
