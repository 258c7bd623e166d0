package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/response"
)

// Notification 站內通知收件匣
type Notification struct {
	Inbox notification.Inbox
}

// RegisterRouter 註冊路由
func (h *Notification) RegisterRouter(authed gin.IRouter) {
	g := authed.Group("/notifications")
	g.GET("", Wrap(h.List))
	g.POST("/:id/read", Wrap(h.MarkRead))
}

// List GET /notifications?unread_only=&limit=
func (h *Notification) List(c *gin.Context) error {
	userID, err := shared.UserIDFromString(middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	items, err := h.Inbox.ListByUser(c.Request.Context(), userID, boolQuery(c, "unread_only"), limit)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

// MarkRead POST /notifications/:id/read
func (h *Notification) MarkRead(c *gin.Context) error {
	userID, err := shared.UserIDFromString(middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	if err := h.Inbox.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": c.Param("id"), "is_read": true})
	return nil
}
