// Package response 統一的 JSON 響應格式與錯誤映射
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
)

// Response 統一響應格式
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody 錯誤內容
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// 非領域錯誤使用的代碼
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL_ERROR"
)

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Abort 中止並返回錯誤（middleware 使用）
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// Error 將錯誤映射為 HTTP 狀態碼並寫入響應
//
// 內部錯誤不回傳原始訊息，記錄到 gin.Context.Errors 由日誌 middleware 輸出。
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]interface{}, len(validationErrs))
		for _, fe := range validationErrs {
			details[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Error: &ErrorBody{Code: CodeInvalidRequest, Message: "請求參數驗證失敗", Details: details},
		})
		return
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := StatusOf(domainErr.Code)
		body := &ErrorBody{Code: string(domainErr.Code), Message: domainErr.Message}
		if status == http.StatusInternalServerError {
			body = &ErrorBody{Code: CodeInternal, Message: "系統異常"}
		} else if len(domainErr.Context) > 0 {
			body.Details = domainErr.Context
		}
		c.AbortWithStatusJSON(status, Response{Error: body})
		return
	}

	Abort(c, http.StatusInternalServerError, CodeInternal, "系統異常")
}

// HTTPError 不屬於領域的請求錯誤（JSON 解析、查詢參數、角色限制）
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// BadRequest 400
func BadRequest(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Code: CodeInvalidRequest, Message: message}
}

// Forbidden 403
func Forbidden(message string) error {
	return &HTTPError{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

var statusByCode = map[shared.ErrorCode]int{
	// 404
	points.ErrCodeAccountNotFound:             http.StatusNotFound,
	points.ErrCodeHistoryNotFound:             http.StatusNotFound,
	card.ErrCodeCardNotFound:                  http.StatusNotFound,
	card.ErrCodeTransactionNotFound:           http.StatusNotFound,
	reward.ErrCodeRewardNotFound:              http.StatusNotFound,
	reward.ErrCodeRedemptionNotFound:          http.StatusNotFound,
	notification.ErrNotificationNotFound.Code: http.StatusNotFound,

	// 403
	card.ErrCodeCardAccessDenied: http.StatusForbidden,

	// 422 業務規則
	card.ErrCodeInsufficientBalance:           http.StatusUnprocessableEntity,
	card.ErrCodeDailyLimitExceeded:            http.StatusUnprocessableEntity,
	card.ErrCodeCardInactive:                  http.StatusUnprocessableEntity,
	card.ErrCodeSameCardTransfer:              http.StatusUnprocessableEntity,
	card.ErrCodeNotRefundable:                 http.StatusUnprocessableEntity,
	points.ErrCodeInsufficientPoints:          http.StatusUnprocessableEntity,
	points.ErrCodeAccountInactive:             http.StatusUnprocessableEntity,
	reward.ErrCodeRewardUnavailable:           http.StatusUnprocessableEntity,
	reward.ErrCodeTierNotMet:                  http.StatusUnprocessableEntity,
	reward.ErrCodeInvalidRedemptionTransition: http.StatusUnprocessableEntity,

	// 409
	shared.ErrCodeConcurrentModification: http.StatusConflict,
	shared.ErrCodeDuplicateRequest:       http.StatusConflict,
	card.ErrCodeTransactionAlreadyVoided: http.StatusConflict,
	card.ErrCodeAlreadyRefunded:          http.StatusConflict,
	points.ErrCodeAccountAlreadyExists:   http.StatusConflict,

	// 400 輸入格式
	shared.ErrCodeInvalidAmount:           http.StatusBadRequest,
	shared.ErrCodeInvalidUserID:           http.StatusBadRequest,
	card.ErrCodeInvalidCardID:             http.StatusBadRequest,
	card.ErrCodeInvalidTransactionID:      http.StatusBadRequest,
	card.ErrCodeInvalidTransactionType:    http.StatusBadRequest,
	card.ErrCodeInvalidDetails:            http.StatusBadRequest,
	points.ErrCodeNegativePointsAmount:    http.StatusBadRequest,
	points.ErrCodeInvalidPointsAmount:     http.StatusBadRequest,
	points.ErrCodeInvalidHistoryType:      http.StatusBadRequest,
	points.ErrCodeInvalidAccountID:        http.StatusBadRequest,
	reward.ErrCodeInvalidRewardID:         http.StatusBadRequest,
	reward.ErrCodeInvalidRedemptionID:     http.StatusBadRequest,
	reward.ErrCodeInvalidReward:           http.StatusBadRequest,
	reward.ErrCodeInvalidQuantity:         http.StatusBadRequest,
	reward.ErrCodeInvalidRedemptionStatus: http.StatusBadRequest,
	tier.ErrCodeInvalidTier:               http.StatusBadRequest,
}

// StatusOf 領域錯誤代碼對應的 HTTP 狀態碼；未列出者為 500
func StatusOf(code shared.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
