package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// Loyalty 積分帳戶、等級、積分流水
type Loyalty struct {
	Validator     *Validator
	CreateAccount *pointsapp.CreateAccountUseCase
	AccountStatus *pointsapp.DeactivateAccountUseCase
	Balance       *pointsapp.GetBalanceUseCase
	TierProgress  *pointsapp.GetTierProgressUseCase
	History       *pointsapp.ListHistoryUseCase
	Award         *pointsapp.AwardPointsUseCase
	Preview       *pointsapp.PreviewAwardUseCase
	Deduct        *pointsapp.DeductPointsUseCase
	Bonus         *pointsapp.AwardBonusUseCase
	Adjust        *pointsapp.AdjustPointsUseCase
	Reconcile     *pointsapp.ReconcileUseCase
}

// RegisterRouter 註冊路由
//
// public 不需要認證；authed 已套用 Auth middleware。
func (h *Loyalty) RegisterRouter(public, authed gin.IRouter) {
	public.GET("/loyalty/tiers", Wrap(h.Tiers))

	g := authed.Group("/loyalty")
	g.GET("/points", Wrap(h.GetBalance))
	g.GET("/history", Wrap(h.ListHistory))
	g.GET("/tier", Wrap(h.GetTierProgress))
	g.GET("/calculate", Wrap(h.Calculate))

	staff := g.Group("", middleware.RequireRole(middleware.RoleCashier, middleware.RoleAdmin))
	staff.POST("/earn", Observe(pointsapp.OperationAwardPoints, h.Earn))
	staff.POST("/redeem", Observe(pointsapp.OperationDeductPoints, h.RedeemPoints))

	admin := g.Group("", middleware.RequireRole(middleware.RoleAdmin))
	admin.POST("/accounts", Wrap(h.OpenAccount))
	admin.POST("/accounts/:userId/deactivate", Wrap(h.Deactivate))
	admin.POST("/accounts/:userId/reactivate", Wrap(h.Reactivate))
	admin.POST("/bonus", Observe(pointsapp.OperationAwardBonus, h.AwardBonus))
	admin.POST("/adjust", Observe(pointsapp.OperationAdjustPoints, h.AdjustPoints))
	admin.GET("/reconcile/:userId", Wrap(h.ReconcileAccount))
}

// CreateAccountRequest 開戶
type CreateAccountRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// OpenAccount POST /loyalty/accounts
func (h *Loyalty) OpenAccount(c *gin.Context) error {
	var req CreateAccountRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.CreateAccount.Execute(c.Request.Context(), pointsapp.CreateAccountCommand{UserID: req.UserID})
	if err != nil {
		return err
	}
	response.Created(c, result)
	return nil
}

// Deactivate POST /loyalty/accounts/:userId/deactivate
func (h *Loyalty) Deactivate(c *gin.Context) error {
	result, err := h.AccountStatus.Execute(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// Reactivate POST /loyalty/accounts/:userId/reactivate
func (h *Loyalty) Reactivate(c *gin.Context) error {
	result, err := h.AccountStatus.Reactivate(c.Request.Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetBalance GET /loyalty/points
func (h *Loyalty) GetBalance(c *gin.Context) error {
	result, err := h.Balance.Execute(subjectUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// ListHistory GET /loyalty/history?type=&page=&limit=
func (h *Loyalty) ListHistory(c *gin.Context) error {
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	result, err := h.History.Execute(pointsapp.ListHistoryQuery{
		UserID: subjectUserID(c),
		Type:   c.Query("type"),
		Page:   page,
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetTierProgress GET /loyalty/tier
func (h *Loyalty) GetTierProgress(c *gin.Context) error {
	result, err := h.TierProgress.Execute(subjectUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// Tiers GET /loyalty/tiers
func (h *Loyalty) Tiers(c *gin.Context) error {
	response.Success(c, pointsapp.TierTable())
	return nil
}

// EarnRequest 消費/儲值獲得積分
type EarnRequest struct {
	UserID      string          `json:"user_id" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"reference_id" validate:"omitempty,max=64"`
	Description string          `json:"description" validate:"max=255"`
}

// Earn POST /loyalty/earn
func (h *Loyalty) Earn(c *gin.Context) error {
	var req EarnRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	amount, err := money(req.Amount)
	if err != nil {
		return err
	}
	result, err := h.Award.Execute(c.Request.Context(), pointsapp.AwardPointsCommand{
		UserID:         req.UserID,
		Amount:         amount,
		ReferenceID:    req.ReferenceID,
		Description:    req.Description,
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// Calculate GET /loyalty/calculate?amount=
//
// 以呼叫者（管理員可指定 ?user_id=）目前等級試算，不入帳。
func (h *Loyalty) Calculate(c *gin.Context) error {
	raw := c.Query("amount")
	if raw == "" {
		return response.BadRequest("amount 為必填")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return response.BadRequest("amount 必須為數字")
	}
	amount, err := money(d)
	if err != nil {
		return err
	}
	result, err := h.Preview.Execute(subjectUserID(c), amount)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// RedeemPointsRequest 櫃檯直接扣減積分（不經獎勵目錄）
type RedeemPointsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Points int    `json:"points" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// RedeemPoints POST /loyalty/redeem
func (h *Loyalty) RedeemPoints(c *gin.Context) error {
	var req RedeemPointsRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Deduct.Execute(c.Request.Context(), pointsapp.DeductPointsCommand{
		UserID:         req.UserID,
		Points:         req.Points,
		Reason:         req.Reason,
		ReferenceType:  string(points.ReferenceAdmin),
		ReferenceID:    middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// BonusRequest 活動贈送
type BonusRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Points      int    `json:"points" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

// AwardBonus POST /loyalty/bonus
func (h *Loyalty) AwardBonus(c *gin.Context) error {
	var req BonusRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Bonus.Execute(c.Request.Context(), pointsapp.AwardBonusCommand{
		UserID:         req.UserID,
		Points:         req.Points,
		Description:    req.Description,
		AdminID:        middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// AdjustRequest 管理員調整（可正可負）
type AdjustRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=255"`
}

// AdjustPoints POST /loyalty/adjust
func (h *Loyalty) AdjustPoints(c *gin.Context) error {
	var req AdjustRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Adjust.Execute(c.Request.Context(), pointsapp.AdjustPointsCommand{
		UserID:         req.UserID,
		Delta:          req.Delta,
		Reason:         req.Reason,
		AdminID:        middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// ReconcileAccount GET /loyalty/reconcile/:userId
func (h *Loyalty) ReconcileAccount(c *gin.Context) error {
	result, err := h.Reconcile.Execute(c.Param("userId"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}
