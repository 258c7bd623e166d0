// Package handler HTTP 處理器：解析請求、調用 Use Case、寫入統一響應
package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/metrics"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// HeaderIdempotencyKey 冪等鍵 header
const HeaderIdempotencyKey = "Idempotency-Key"

// HandlerFunc 返回 error 的處理函數，由 Wrap 統一轉換為響應
type HandlerFunc func(c *gin.Context) error

// Wrap 錯誤統一交給 response.Error
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			if c.Writer.Written() {
				return
			}
			response.Error(c, err)
		}
	}
}

// Observe 同 Wrap，並記錄帳本操作指標
func Observe(operation string, h HandlerFunc) gin.HandlerFunc {
	return Wrap(func(c *gin.Context) error {
		err := h(c)
		metrics.ObserveOperation(operation, err)
		return err
	})
}

// ===========================
// 請求驗證
// ===========================

// Validator 請求 DTO 驗證（validate tag）
type Validator struct {
	v *validator.Validate
}

// NewValidator 建構函數
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate 驗證結構體
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// bindJSON 解析 JSON body 並驗證；空 body 視為 {}
func (v *Validator) bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return response.BadRequest("無效的 JSON 請求內容")
	}
	return v.Validate(req)
}

// ===========================
// 參數輔助
// ===========================

func idempotencyKey(c *gin.Context) string {
	return c.GetHeader(HeaderIdempotencyKey)
}

// pageOf 解析 ?page=&limit=
func pageOf(c *gin.Context) (common.Page, error) {
	page, err := intQuery(c, "page")
	if err != nil {
		return common.Page{}, err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return common.Page{}, err
	}
	return common.Page{Page: page, Limit: limit}, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, response.BadRequest(key + " 必須為整數")
	}
	return n, nil
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

// money 請求金額轉為 shared.Money（非負、最多兩位小數）
func money(d decimal.Decimal) (shared.Money, error) {
	return shared.NewMoney(d)
}

// ownerScope 員工可操作任何人的卡片；顧客只能操作自己的
func ownerScope(c *gin.Context) string {
	if middleware.IsStaff(c) {
		return ""
	}
	return middleware.CurrentUserID(c)
}

// subjectUserID 管理員可用 ?user_id= 查看他人；其他角色只能查看自己
func subjectUserID(c *gin.Context) string {
	if middleware.CurrentRole(c) == middleware.RoleAdmin {
		if userID := c.Query("user_id"); userID != "" {
			return userID
		}
	}
	return middleware.CurrentUserID(c)
}
