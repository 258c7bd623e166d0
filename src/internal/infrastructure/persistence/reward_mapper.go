package persistence

import (
	"gorm.io/datatypes"

	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

func rewardToDomain(model *RewardModel) (*reward.Reward, error) {
	rewardID, err := reward.RewardIDFromString(model.ID)
	if err != nil {
		return nil, err
	}

	var required tier.Tier
	if model.Tier != nil {
		required = tier.Tier(*model.Tier)
	}

	return reward.ReconstructReward(reward.Snapshot{
		RewardID: rewardID,
		Spec: reward.Spec{
			Name:         model.Name,
			Description:  model.Description,
			Category:     model.Category,
			ImageURL:     model.ImageURL,
			Terms:        model.Terms,
			PointsCost:   model.PointsCost,
			Stock:        model.Stock,
			RequiredTier: required,
			IsFeatured:   model.IsFeatured,
			ValidFrom:    model.ValidFrom,
			ValidUntil:   model.ValidUntil,
		},
		RedeemCount: model.RedeemCount,
		IsActive:    model.IsActive,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}

func rewardToGORM(r *reward.Reward) *RewardModel {
	model := &RewardModel{
		ID:          r.RewardID().String(),
		Name:        r.Name(),
		Description: r.Description(),
		Category:    r.Category(),
		ImageURL:    r.ImageURL(),
		Terms:       r.Terms(),
		PointsCost:  r.PointsCost(),
		Stock:       r.Stock(),
		RedeemCount: r.RedeemCount(),
		IsActive:    r.IsActive(),
		IsFeatured:  r.IsFeatured(),
		ValidFrom:   utcPtr(r.ValidFrom()),
		ValidUntil:  utcPtr(r.ValidUntil()),
		Version:     r.Version(),
		CreatedAt:   r.CreatedAt().UTC(),
		UpdatedAt:   r.UpdatedAt().UTC(),
	}
	if r.RequiredTier() != "" {
		t := r.RequiredTier().String()
		model.Tier = &t
	}
	return model
}

func redemptionToDomain(model *RedemptionModel) (*reward.Redemption, error) {
	redemptionID, err := reward.RedemptionIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	userID, err := shared.UserIDFromString(model.UserID)
	if err != nil {
		return nil, err
	}
	rewardID, err := reward.RewardIDFromString(model.RewardID)
	if err != nil {
		return nil, err
	}

	var address *reward.DeliveryAddress
	if rec := model.DeliveryAddress.Data(); rec.Present {
		address = &reward.DeliveryAddress{
			Recipient:  rec.Recipient,
			Phone:      rec.Phone,
			Line1:      rec.Line1,
			Line2:      rec.Line2,
			City:       rec.City,
			PostalCode: rec.PostalCode,
			Country:    rec.Country,
		}
	}

	return reward.ReconstructRedemption(reward.RedemptionSnapshot{
		RedemptionID:    redemptionID,
		UserID:          userID,
		RewardID:        rewardID,
		RewardName:      model.RewardName,
		PointsSpent:     model.PointsSpent,
		Quantity:        model.Quantity,
		Status:          reward.Status(model.Status),
		Code:            model.Code,
		ExpiresAt:       model.ExpiresAt,
		UsedAt:          model.UsedAt,
		Notes:           model.Notes,
		DeliveryAddress: address,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}

func redemptionToGORM(r *reward.Redemption) *RedemptionModel {
	rec := addressRecord{}
	if a := r.DeliveryAddress(); a != nil {
		rec = addressRecord{
			Present:    true,
			Recipient:  a.Recipient,
			Phone:      a.Phone,
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}

	return &RedemptionModel{
		ID:              r.RedemptionID().String(),
		UserID:          r.UserID().String(),
		RewardID:        r.RewardID().String(),
		RewardName:      r.RewardName(),
		PointsSpent:     r.PointsSpent(),
		Quantity:        r.Quantity(),
		Status:          string(r.Status()),
		Code:            r.Code(),
		ExpiresAt:       r.ExpiresAt().UTC(),
		UsedAt:          utcPtr(r.UsedAt()),
		Notes:           r.Notes(),
		DeliveryAddress: datatypes.NewJSONType(rec),
		Version:         r.Version(),
		CreatedAt:       r.CreatedAt().UTC(),
		UpdatedAt:       r.UpdatedAt().UTC(),
	}
}
