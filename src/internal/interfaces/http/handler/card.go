package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cardapp "github.com/giftee-platform/giftee/src/internal/application/card"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// Card 禮品卡與卡片交易
type Card struct {
	Validator *Validator
	Issue     *cardapp.IssueCardUseCase
	Load      *cardapp.LoadCardUseCase
	Deduct    *cardapp.DeductCardUseCase
	Transfer  *cardapp.TransferUseCase
	Void      *cardapp.VoidTransactionUseCase
	Refund    *cardapp.RefundUseCase
	Status    *cardapp.CardStatusUseCase
	Query     *cardapp.CardQueryUseCase
}

// RegisterRouter 註冊路由（全部需要認證）
func (h *Card) RegisterRouter(authed gin.IRouter) {
	cards := authed.Group("/cards")
	cards.POST("", Observe(cardapp.OperationIssueCard, h.IssueCard))
	cards.GET("", Wrap(h.ListCards))
	cards.GET("/balance", Wrap(h.CheckBalance))
	cards.GET("/:id", Wrap(h.GetCard))
	cards.GET("/:id/transactions", Wrap(h.ListTransactions))
	cards.POST("/:id/activate", Observe(cardapp.OperationCardStatus, h.Activate))
	cards.POST("/:id/deactivate", Observe(cardapp.OperationCardStatus, h.Deactivate))
	cards.POST("/transfer", Observe(cardapp.OperationTransfer, h.TransferFunds))

	staffCards := cards.Group("", middleware.RequireRole(middleware.RoleCashier, middleware.RoleAdmin))
	staffCards.POST("/load", Observe(cardapp.OperationLoadCard, h.LoadCard))
	staffCards.POST("/deduct", Observe(cardapp.OperationDeductCard, h.DeductCard))

	txs := authed.Group("/transactions", middleware.RequireRole(middleware.RoleCashier, middleware.RoleAdmin))
	txs.GET("/:id", Wrap(h.GetTransaction))
	txs.POST("/:id/void", Observe(cardapp.OperationVoid, h.VoidTransaction))
	txs.POST("/:id/refund", middleware.RequireRole(middleware.RoleAdmin), Observe(cardapp.OperationRefund, h.RefundTransaction))
}

// IssueCardRequest 發卡；只有員工可以指定持卡人與初始餘額
type IssueCardRequest struct {
	OwnerID        string           `json:"owner_id" validate:"omitempty,uuid"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
	DailyLoadLimit *decimal.Decimal `json:"daily_load_limit"`
}

// IssueCard POST /cards
func (h *Card) IssueCard(c *gin.Context) error {
	var req IssueCardRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}

	cmd := cardapp.IssueCardCommand{
		OwnerID:        middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	}
	if middleware.IsStaff(c) {
		cmd.CashierID = middleware.CurrentUserID(c)
		if req.OwnerID != "" {
			cmd.OwnerID = req.OwnerID
		}
	} else if req.OwnerID != "" || req.InitialBalance != nil || req.DailyLoadLimit != nil {
		return response.Forbidden("只有員工可以指定持卡人、初始餘額或儲值上限")
	}

	var err error
	if req.InitialBalance != nil {
		if cmd.InitialBalance, err = money(*req.InitialBalance); err != nil {
			return err
		}
	}
	if req.DailyLoadLimit != nil {
		if cmd.DailyLoadLimit, err = money(*req.DailyLoadLimit); err != nil {
			return err
		}
	}

	result, err := h.Issue.Execute(c.Request.Context(), cmd)
	if err != nil {
		return err
	}
	response.Created(c, result)
	return nil
}

// ListCards GET /cards
func (h *Card) ListCards(c *gin.Context) error {
	result, err := h.Query.ListUserCards(subjectUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// CheckBalance GET /cards/balance?card_id=|card_number=
func (h *Card) CheckBalance(c *gin.Context) error {
	result, err := h.Query.CheckBalance(cardapp.CheckBalanceQuery{
		CardID:     c.Query("card_id"),
		CardNumber: c.Query("card_number"),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetCard GET /cards/:id
func (h *Card) GetCard(c *gin.Context) error {
	result, err := h.Query.GetCard(c.Param("id"), ownerScope(c))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// ListTransactions GET /cards/:id/transactions?type=&page=&limit=
func (h *Card) ListTransactions(c *gin.Context) error {
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	result, err := h.Query.ListTransactions(cardapp.ListTransactionsQuery{
		CardID:  c.Param("id"),
		OwnerID: ownerScope(c),
		Type:    c.Query("type"),
		Page:    page,
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// Activate POST /cards/:id/activate
func (h *Card) Activate(c *gin.Context) error {
	return h.setStatus(c, true)
}

// Deactivate POST /cards/:id/deactivate
func (h *Card) Deactivate(c *gin.Context) error {
	return h.setStatus(c, false)
}

func (h *Card) setStatus(c *gin.Context, active bool) error {
	result, err := h.Status.Execute(c.Request.Context(), cardapp.SetCardStatusCommand{
		CardID:  c.Param("id"),
		Active:  active,
		OwnerID: ownerScope(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// LoadCardRequest 儲值
type LoadCardRequest struct {
	CardID      string          `json:"card_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" validate:"omitempty,oneof=cash card bank_transfer"`
	Description string          `json:"description" validate:"max=255"`
}

// LoadCard POST /cards/load
func (h *Card) LoadCard(c *gin.Context) error {
	var req LoadCardRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	amount, err := money(req.Amount)
	if err != nil {
		return err
	}
	result, err := h.Load.Execute(c.Request.Context(), cardapp.LoadCardCommand{
		CardID:         req.CardID,
		Amount:         amount,
		Method:         req.Method,
		Description:    req.Description,
		CashierID:      middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// PaymentItemRequest 付款明細
type PaymentItemRequest struct {
	Name      string          `json:"name" validate:"required,max=128"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeductCardRequest 付款
type DeductCardRequest struct {
	CardID      string               `json:"card_id" validate:"required"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description" validate:"max=255"`
	Items       []PaymentItemRequest `json:"items" validate:"dive"`
}

// DeductCard POST /cards/deduct
func (h *Card) DeductCard(c *gin.Context) error {
	var req DeductCardRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	amount, err := money(req.Amount)
	if err != nil {
		return err
	}
	items := make([]cardapp.PaymentItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := money(item.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, cardapp.PaymentItem{Name: item.Name, Quantity: item.Quantity, UnitPrice: unitPrice})
	}

	result, err := h.Deduct.Execute(c.Request.Context(), cardapp.DeductCardCommand{
		CardID:         req.CardID,
		Amount:         amount,
		Description:    req.Description,
		Items:          items,
		CashierID:      middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// TransferRequest 卡對卡轉帳
type TransferRequest struct {
	FromCardID  string          `json:"from_card_id" validate:"required"`
	ToCardID    string          `json:"to_card_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

// TransferFunds POST /cards/transfer（轉出卡必須屬於呼叫者）
func (h *Card) TransferFunds(c *gin.Context) error {
	var req TransferRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	amount, err := money(req.Amount)
	if err != nil {
		return err
	}
	result, err := h.Transfer.Execute(c.Request.Context(), cardapp.TransferCommand{
		FromCardID:     req.FromCardID,
		ToCardID:       req.ToCardID,
		Amount:         amount,
		Description:    req.Description,
		OwnerID:        middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// GetTransaction GET /transactions/:id
func (h *Card) GetTransaction(c *gin.Context) error {
	result, err := h.Query.GetTransaction(c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// VoidRequest 作廢原因
type VoidRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// VoidTransaction POST /transactions/:id/void（只標記，不回沖餘額）
func (h *Card) VoidTransaction(c *gin.Context) error {
	var req VoidRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Void.Execute(c.Request.Context(), cardapp.VoidTransactionCommand{
		TransactionID: c.Param("id"),
		Reason:        req.Reason,
		VoidedBy:      middleware.CurrentUserID(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}

// RefundRequest 退款說明
type RefundRequest struct {
	Description string `json:"description" validate:"max=255"`
}

// RefundTransaction POST /transactions/:id/refund
func (h *Card) RefundTransaction(c *gin.Context) error {
	var req RefundRequest
	if err := h.Validator.bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.Refund.Execute(c.Request.Context(), cardapp.RefundCommand{
		TransactionID:  c.Param("id"),
		Description:    req.Description,
		CashierID:      middleware.CurrentUserID(c),
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}
	response.Success(c, result)
	return nil
}
