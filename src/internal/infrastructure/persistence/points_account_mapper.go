package persistence

import (
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// ===========================
// Domain ↔ GORM Model 轉換函數
// ===========================

// accountToDomain 將 GORM Model 轉換為 Domain 聚合根
//
// 使用 ReconstructAccount 重建（不發布事件），
// 資料庫數據違反業務規則時返回錯誤而非 panic。
func accountToDomain(model *AccountModel) (*points.Account, error) {
	accountID, err := points.AccountIDFromString(model.ID)
	if err != nil {
		return nil, points.ErrInvalidAccountID.WithContext(
			"id", model.ID,
			"reason", "invalid UUID format in database",
		)
	}

	userID, err := shared.UserIDFromString(model.UserID)
	if err != nil {
		return nil, shared.ErrInvalidUserID.WithContext(
			"id", model.UserID,
			"reason", "invalid UUID format in database",
		)
	}

	return points.ReconstructAccount(
		accountID,
		userID,
		model.TotalPoints,
		model.LifetimePoints,
		model.IsActive,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// accountToGORM 將 Domain 聚合根轉換為 GORM Model
func accountToGORM(account *points.Account) *AccountModel {
	return &AccountModel{
		ID:             account.AccountID().String(),
		UserID:         account.UserID().String(),
		TotalPoints:    account.TotalPoints().Value(),
		LifetimePoints: account.LifetimePoints().Value(),
		Tier:           account.Tier().String(),
		IsActive:       account.IsActive(),
		Version:        account.Version(),
		CreatedAt:      account.CreatedAt().UTC(),
		UpdatedAt:      account.UpdatedAt().UTC(),
	}
}

// historyToDomain 重建積分流水
func historyToDomain(model *PointHistoryModel) (*points.PointHistory, error) {
	historyID, err := points.HistoryIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	accountID, err := points.AccountIDFromString(model.AccountID)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(model.UserID)
	if err != nil {
		return nil, err
	}
	refType, err := points.ParseReferenceType(model.ReferenceType)
	if err != nil {
		return nil, err
	}

	return points.ReconstructPointHistory(points.HistorySnapshot{
		HistoryID:     historyID,
		AccountID:     accountID,
		UserID:        userID,
		Type:          points.HistoryType(model.Type),
		Points:        model.Points,
		BalanceBefore: model.BalanceBefore,
		BalanceAfter:  model.BalanceAfter,
		Description:   model.Description,
		Reference:     points.Reference{Type: refType, ID: model.ReferenceID},
		BasePoints:    model.BasePoints,
		BonusPoints:   model.BonusPoints,
		Multiplier:    model.Multiplier,
		CreatedAt:     model.CreatedAt,
	})
}

// historyToGORM 積分流水轉 GORM Model
func historyToGORM(entry *points.PointHistory) *PointHistoryModel {
	return &PointHistoryModel{
		ID:            entry.HistoryID().String(),
		AccountID:     entry.AccountID().String(),
		UserID:        entry.UserID().String(),
		Type:          string(entry.Type()),
		Points:        entry.Points(),
		BalanceBefore: entry.BalanceBefore(),
		BalanceAfter:  entry.BalanceAfter(),
		Description:   entry.Description(),
		ReferenceType: string(entry.Reference().Type),
		ReferenceID:   entry.Reference().ID,
		BasePoints:    entry.BasePoints(),
		BonusPoints:   entry.BonusPoints(),
		Multiplier:    entry.Multiplier(),
		CreatedAt:     entry.CreatedAt().UTC(),
	}
}
