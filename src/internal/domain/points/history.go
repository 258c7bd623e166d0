package points

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// PointHistory 積分流水（不可變）
// ===========================

// PointHistory 積分流水
//
// 不變條件：
// - points 為有號差額（earn/bonus/refund 為正，redeem/expire 為負，adjustment 兩者皆可）
// - balanceAfter - balanceBefore == points
// - 同一用戶所有流水的 points 總和 == 帳戶 totalPoints
//
// 只由 Account 的命令方法產生；寫入後永不修改。
type PointHistory struct {
	historyID     HistoryID
	accountID     AccountID
	userID        shared.UserID
	historyType   HistoryType
	points        int
	balanceBefore int
	balanceAfter  int
	description   string
	reference     Reference

	// earn 明細（其他類型為零值）
	basePoints  int
	bonusPoints int
	multiplier  decimal.Decimal

	createdAt time.Time
}

// HistorySnapshot 重建 PointHistory 所需欄位（僅供 Repository 使用）
type HistorySnapshot struct {
	HistoryID     HistoryID
	AccountID     AccountID
	UserID        shared.UserID
	Type          HistoryType
	Points        int
	BalanceBefore int
	BalanceAfter  int
	Description   string
	Reference     Reference
	BasePoints    int
	BonusPoints   int
	Multiplier    decimal.Decimal
	CreatedAt     time.Time
}

// ReconstructPointHistory 從持久化存儲重建流水
func ReconstructPointHistory(s HistorySnapshot) (*PointHistory, error) {
	if s.HistoryID.IsEmpty() {
		return nil, ErrInvalidHistoryID.WithContext("reason", "invalid history ID in database")
	}
	if _, err := ParseHistoryType(string(s.Type)); err != nil {
		return nil, err
	}
	if s.BalanceAfter-s.BalanceBefore != s.Points || s.BalanceAfter < 0 || s.BalanceBefore < 0 {
		return nil, ErrCorruptedAccount.WithContext(
			"history_id", s.HistoryID.String(),
			"points", s.Points,
			"balance_before", s.BalanceBefore,
			"balance_after", s.BalanceAfter,
		)
	}

	return &PointHistory{
		historyID:     s.HistoryID,
		accountID:     s.AccountID,
		userID:        s.UserID,
		historyType:   s.Type,
		points:        s.Points,
		balanceBefore: s.BalanceBefore,
		balanceAfter:  s.BalanceAfter,
		description:   s.Description,
		reference:     s.Reference,
		basePoints:    s.BasePoints,
		bonusPoints:   s.BonusPoints,
		multiplier:    s.Multiplier,
		createdAt:     s.CreatedAt,
	}, nil
}

// HistoryID 流水 ID
func (h *PointHistory) HistoryID() HistoryID { return h.historyID }

// AccountID 帳戶 ID
func (h *PointHistory) AccountID() AccountID { return h.accountID }

// UserID 用戶 ID
func (h *PointHistory) UserID() shared.UserID { return h.userID }

// Type 流水類型
func (h *PointHistory) Type() HistoryType { return h.historyType }

// Points 有號差額
func (h *PointHistory) Points() int { return h.points }

// BalanceBefore 變更前餘額
func (h *PointHistory) BalanceBefore() int { return h.balanceBefore }

// BalanceAfter 變更後餘額
func (h *PointHistory) BalanceAfter() int { return h.balanceAfter }

// Description 描述
func (h *PointHistory) Description() string { return h.description }

// Reference 關聯
func (h *PointHistory) Reference() Reference { return h.reference }

// BasePoints earn 基礎積分
func (h *PointHistory) BasePoints() int { return h.basePoints }

// BonusPoints earn 等級加成
func (h *PointHistory) BonusPoints() int { return h.bonusPoints }

// Multiplier earn 使用的倍率
func (h *PointHistory) Multiplier() decimal.Decimal { return h.multiplier }

// CreatedAt 建立時間
func (h *PointHistory) CreatedAt() time.Time { return h.createdAt }
