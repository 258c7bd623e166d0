package points

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
)

// AccountResult 積分帳戶快照
type AccountResult struct {
	AccountID      string    `json:"account_id"`
	UserID         string    `json:"user_id"`
	TotalPoints    int       `json:"total_points"`
	LifetimePoints int       `json:"lifetime_points"`
	Tier           string    `json:"tier"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAccountResult(a *points.Account) *AccountResult {
	return &AccountResult{
		AccountID:      a.AccountID().String(),
		UserID:         a.UserID().String(),
		TotalPoints:    a.TotalPoints().Value(),
		LifetimePoints: a.LifetimePoints().Value(),
		Tier:           a.Tier().String(),
		IsActive:       a.IsActive(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

// HistoryEntryResult 積分流水
type HistoryEntryResult struct {
	HistoryID     string    `json:"history_id,omitempty"`
	Type          string    `json:"type"`
	Points        int       `json:"points"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
	Description   string    `json:"description,omitempty"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	BasePoints    int       `json:"base_points,omitempty"`
	BonusPoints   int       `json:"bonus_points,omitempty"`
	Multiplier    string    `json:"multiplier,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toHistoryEntryResult(h *points.PointHistory) HistoryEntryResult {
	r := HistoryEntryResult{
		HistoryID:     h.HistoryID().String(),
		Type:          string(h.Type()),
		Points:        h.Points(),
		BalanceBefore: h.BalanceBefore(),
		BalanceAfter:  h.BalanceAfter(),
		Description:   h.Description(),
		ReferenceType: string(h.Reference().Type),
		ReferenceID:   h.Reference().ID,
		BasePoints:    h.BasePoints(),
		BonusPoints:   h.BonusPoints(),
		CreatedAt:     h.CreatedAt(),
	}
	if h.Type() == points.HistoryEarn {
		r.Multiplier = h.Multiplier().String()
	}
	return r
}
