// Package tier 會員等級引擎
//
// 純函數模組，無狀態：等級門檻、積分倍率與排序只在這裡定義一次，
// 帳戶聚合、積分計算、兌換資格與 HTTP 等級說明都從這裡讀取。
package tier

import (
	"github.com/shopspring/decimal"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// Tier 會員等級
type Tier string

// 等級（由低到高）
const (
	Bronze   Tier = "bronze"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

// ErrCodeInvalidTier 無效等級
const ErrCodeInvalidTier shared.ErrorCode = "TIER_INVALID"

// ErrInvalidTier 無效等級
var ErrInvalidTier = shared.NewDomainError(ErrCodeInvalidTier, "無效的會員等級")

// Definition 單一等級的配置
type Definition struct {
	Tier       Tier
	MinPoints  int             // 累積積分門檻（>=）
	Multiplier decimal.Decimal // 積分倍率
	Benefits   []string
}

// definitions 等級表（由低到高排列，Rank = index）
var definitions = []Definition{
	{Tier: Bronze, MinPoints: 0, Multiplier: decimal.RequireFromString("1.0"), Benefits: []string{"Basic rewards"}},
	{Tier: Silver, MinPoints: 500, Multiplier: decimal.RequireFromString("1.25"), Benefits: []string{"10% bonus points", "Birthday reward"}},
	{Tier: Gold, MinPoints: 2000, Multiplier: decimal.RequireFromString("1.5"), Benefits: []string{"25% bonus points", "Priority support", "Exclusive rewards"}},
	{Tier: Platinum, MinPoints: 5000, Multiplier: decimal.RequireFromString("2.0"), Benefits: []string{"Double points", "VIP events", "Free delivery"}},
}

// Table 返回等級表副本（供等級說明端點使用）
func Table() []Definition {
	out := make([]Definition, len(definitions))
	for i, d := range definitions {
		benefits := make([]string, len(d.Benefits))
		copy(benefits, d.Benefits)
		d.Benefits = benefits
		out[i] = d
	}
	return out
}

// Parse 從字串解析等級
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", ErrInvalidTier.WithContext("input", s)
	}
	return t, nil
}

// IsValid 是否為已知等級
func (t Tier) IsValid() bool {
	return Rank(t) >= 0
}

// String 實現 fmt.Stringer
func (t Tier) String() string {
	return string(t)
}

// ForLifetimePoints 根據累積積分計算等級
//
// 從最高等級往下比較，第一個滿足 points >= MinPoints 的等級勝出（剛好等於門檻時取較高等級）。
func ForLifetimePoints(points int) Tier {
	for i := len(definitions) - 1; i >= 0; i-- {
		if points >= definitions[i].MinPoints {
			return definitions[i].Tier
		}
	}
	return Bronze
}

// Multiplier 等級積分倍率；未知等級按 1.0 計算
func Multiplier(t Tier) decimal.Decimal {
	if def, ok := lookup(t); ok {
		return def.Multiplier
	}
	return decimal.NewFromInt(1)
}

// Rank 等級排序（bronze=0 ... platinum=3）；未知等級返回 -1
func Rank(t Tier) int {
	for i, d := range definitions {
		if d.Tier == t {
			return i
		}
	}
	return -1
}

// Meets 等級 t 是否滿足 required 的要求
func Meets(t, required Tier) bool {
	return Rank(t) >= Rank(required)
}

// Next 下一個等級；已是最高等級時 ok 為 false
func Next(t Tier) (Tier, bool) {
	r := Rank(t)
	if r < 0 || r+1 >= len(definitions) {
		return "", false
	}
	return definitions[r+1].Tier, true
}

// MinPoints 等級門檻
func MinPoints(t Tier) int {
	if def, ok := lookup(t); ok {
		return def.MinPoints
	}
	return 0
}

// Lookup 查詢等級配置
func Lookup(t Tier) (Definition, bool) {
	return lookup(t)
}

func lookup(t Tier) (Definition, bool) {
	r := Rank(t)
	if r < 0 {
		return Definition{}, false
	}
	return definitions[r], true
}
