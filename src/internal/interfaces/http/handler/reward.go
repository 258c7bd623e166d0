package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	rewardapp "github.com/giftee-platform/giftee/src/internal/application/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// Reward 獎勵目錄與兌換
type Reward struct {
	Validator   *Validator
	Catalog     *rewardapp.RewardCatalogUseCase
	Redeem      *rewardapp.RedeemUseCase
	Check       *rewardapp.CheckRedeemabilityUseCase
	Lifecycle   *rewardapp.RedemptionLifecycleUseCase
	Expire      *rewardapp.ExpireRedemptionsUseCase
	Redemptions *rewardapp.RedemptionQueryUseCase
}

// RegisterRouter 註冊路由
func (h *Reward) RegisterRouter(public, authed gin.IRouter) {
	public.GET("/rewards", Wrap(h.ListRewards))
	public.GET("/rewards/:id", Wrap(h.GetReward))

	rewards := authed.Group("/rewards")
	rewards.GET("/:id/check", Wrap(h.CheckRedeemability))
	rewards.POST("/:id/redeem", Observe(rewardapp.OperationRedeem, h.RedeemReward))

	adminRewards := rewards.Group("", middleware.RequireRole(middleware.RoleAdmin))
	adminRewards.POST("", Wrap(h.CreateReward))
	adminRewards.PUT("/:id", Wrap(h.UpdateReward))
	adminRewards.DELETE("/:id", Wrap(h.DeactivateReward))

	redemptions := authed.Group("/redemptions")
	redemptions.GET("", Wrap(h.ListRedemptions))
	redemptions.GET("/:id", Wrap(h.GetRedemption))

	adminRedemptions := redemptions.Group("", middleware.RequireRole(middleware.RoleAdmin))
	adminRedemptions.POST("/:id/process", Observe(rewardapp.OperationRedemptionStatus, h.ProcessRedemption))
	adminRedemptions.POST("/:id/complete", Observe(rewardapp.OperationRedemptionStatus, h.CompleteRedemption))
	adminRedemptions.POST("/:id/cancel", Observe(rewardapp.OperationRedemptionStatus, h.CancelRedemption))
	adminRedemptions.POST("/expire", Observe(rewardapp.OperationExpireRedemptions, h.ExpireRedemptions))
}

// ListRewards GET /rewards?category=&tier=&featured=&page=&limit=
func (h *Reward) ListRewards(c *gin.Context) error {
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	result, err := h.Catalog.List(rewardapp.ListRewardsQuery{
		Category:     c.Query("category"),
		Tier:         c.Query("tier"),
		FeaturedOnly: boolQuery(c, "featured"),
		Page:         page,
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetReward GET /rewards/:id
func (h *Reward) GetReward(c *gin.Context) error {
	result, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// CheckRedeemability GET /rewards/:id/check?quantity=
func (h *Reward) CheckRedeemability(c *gin.Context) error {
	quantity, err := intQuery(c, "quantity")
	if err != nil {
		return err
	}
	if quantity == 0 {
		quantity = 1
	}
	result, err := h.Check.Execute(middleware.CurrentUserID(c), c.Param("id"), quantity)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// DeliveryAddressRequest 實體獎勵寄送地址
type DeliveryAddressRequest struct {
	Recipient  string `json:"recipient" validate:"required,max=64"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	City       string `json:"city" validate:"required,max=64"`
	PostalCode string `json:"postal_code" validate:"required,max=16"`
	Country    string `json:"country" validate:"required,max=64"`
}

// RedeemRequest 兌換
type RedeemRequest struct {
	Quantity        int                     `json:"quantity" validate:"gte=0,lte=100"`
	DeliveryAddress *DeliveryAddressRequest `json:"delivery_address"`
	Notes           string                  `json:"notes" validate:"max=500"`
}

// RedeemReward POST /rewards/:id/redeem
func (h *Reward) RedeemReward(c *gin.Context) error {
	var req RedeemRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	var address *reward.DeliveryAddress
	if req.DeliveryAddress != nil {
		a := reward.DeliveryAddress(*req.DeliveryAddress)
		address = &a
	}

	result, err := h.Redeem.Execute(c.Request.Context(), rewardapp.RedeemCommand{
		UserID:          middleware.CurrentUserID(c),
		RewardID:        c.Param("id"),
		Quantity:        req.Quantity,
		DeliveryAddress: address,
		Notes:           req.Notes,
		IdempotencyKey:  idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Created(c, result)
	return nil
}

// RewardRequest 建立/更新獎勵
type RewardRequest struct {
	Name         string     `json:"name" validate:"required,max=128"`
	Description  string     `json:"description" validate:"max=2000"`
	Category     string     `json:"category" validate:"required,max=64"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
	Terms        string     `json:"terms" validate:"max=2000"`
	PointsCost   int        `json:"points_cost" validate:"required,gt=0"`
	Stock        *int       `json:"stock" validate:"omitempty,gte=-1"`
	RequiredTier string     `json:"required_tier" validate:"omitempty,oneof=bronze silver gold platinum"`
	IsFeatured   bool       `json:"is_featured"`
	ValidFrom    *time.Time `json:"valid_from"`
	ValidUntil   *time.Time `json:"valid_until"`
}

func (r RewardRequest) spec() rewardapp.RewardSpec {
	stock := reward.UnlimitedStock
	if r.Stock != nil {
		stock = *r.Stock
	}
	return rewardapp.RewardSpec{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		ImageURL:     r.ImageURL,
		Terms:        r.Terms,
		PointsCost:   r.PointsCost,
		Stock:        stock,
		RequiredTier: r.RequiredTier,
		IsFeatured:   r.IsFeatured,
		ValidFrom:    r.ValidFrom,
		ValidUntil:   r.ValidUntil,
	}
}

// CreateReward POST /rewards
func (h *Reward) CreateReward(c *gin.Context) error {
	var req RewardRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Catalog.Create(c.Request.Context(), req.spec())
	if err != nil {
		return err
	}
	response.Created(c, result)
	return nil
}

// UpdateReward PUT /rewards/:id
func (h *Reward) UpdateReward(c *gin.Context) error {
	var req RewardRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), req.spec())
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// DeactivateReward DELETE /rewards/:id（停用，不刪除）
func (h *Reward) DeactivateReward(c *gin.Context) error {
	result, err := h.Catalog.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// ListRedemptions GET /redemptions?status=&page=&limit=
//
// 管理員不帶 user_id 時查看全部兌換。
func (h *Reward) ListRedemptions(c *gin.Context) error {
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	userID := middleware.CurrentUserID(c)
	if middleware.CurrentRole(c) == middleware.RoleAdmin {
		userID = c.Query("user_id")
	}
	result, err := h.Redemptions.List(rewardapp.ListRedemptionsQuery{
		UserID: userID,
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetRedemption GET /redemptions/:id
func (h *Reward) GetRedemption(c *gin.Context) error {
	userID := middleware.CurrentUserID(c)
	if middleware.CurrentRole(c) == middleware.RoleAdmin {
		userID = ""
	}
	result, err := h.Redemptions.Get(c.Param("id"), userID)
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// ProcessRedemption POST /redemptions/:id/process
func (h *Reward) ProcessRedemption(c *gin.Context) error {
	return h.respond(c)(h.Lifecycle.Process(c.Request.Context(), c.Param("id")))
}

// CompleteRedemption POST /redemptions/:id/complete
func (h *Reward) CompleteRedemption(c *gin.Context) error {
	return h.respond(c)(h.Lifecycle.Complete(c.Request.Context(), c.Param("id")))
}

// CancelRedemption POST /redemptions/:id/cancel（退回積分）
func (h *Reward) CancelRedemption(c *gin.Context) error {
	return h.respond(c)(h.Lifecycle.Cancel(c.Request.Context(), c.Param("id")))
}

func (h *Reward) respond(c *gin.Context) func(*rewardapp.RedemptionResult, error) error {
	return func(result *rewardapp.RedemptionResult, err error) error {
		if err != nil {
			return err
		}
		response.Success(c, result)
		return nil
	}
}

// ExpireRedemptions POST /redemptions/expire（手動觸發一次過期批次）
func (h *Reward) ExpireRedemptions(c *gin.Context) error {
	result, err := h.Expire.Execute(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}
