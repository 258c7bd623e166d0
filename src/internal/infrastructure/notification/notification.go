package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// Type 通知分類
type Type string

// 通知分類
const (
	TypeTransaction Type = "transaction"
	TypePoints      Type = "points"
	TypeReward      Type = "reward"
	TypeTier        Type = "tier"
)

// Notification 站內通知
type Notification struct {
	ID        string                 `json:"id"`
	UserID    shared.UserID          `json:"-"`
	Type      Type                   `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

// ErrNotificationNotFound 通知不存在
var ErrNotificationNotFound = shared.NewDomainError("NOTIFICATION_NOT_FOUND", "通知不存在")

// Inbox 通知收件匣存儲
type Inbox interface {
	Save(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID shared.UserID, unreadOnly bool, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID shared.UserID, id string) error
}

// FromEvent 將領域事件轉換為使用者通知
//
// 不需要通知使用者的事件（帳戶建立、卡片狀態變更等）返回 false。
func FromEvent(event shared.DomainEvent) (*Notification, bool) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    event.UserID(),
		Data:      event.Payload(),
		CreatedAt: event.OccurredAt(),
	}
	if n.Data == nil {
		n.Data = map[string]interface{}{}
	}
	n.Data["event_type"] = event.EventType()

	switch e := event.(type) {
	case *points.TierUpgradedEvent:
		n.Type = TypeTier
		n.Title = "Tier upgraded"
		n.Message = fmt.Sprintf("Congratulations! You are now %s.", capitalize(e.To().String()))
	case *points.PointsChangedEvent:
		n.Type = TypePoints
		n.Title, n.Message = pointsMessage(e)
	case *reward.RedemptionCreatedEvent:
		n.Type = TypeReward
		n.Title = "Reward redeemed"
		n.Message = fmt.Sprintf("You redeemed %s.", e.RewardName())
	case *reward.RedemptionStatusChangedEvent:
		n.Type = TypeReward
		n.Title = "Redemption " + string(e.Status())
		n.Message = fmt.Sprintf("Your redemption is now %s.", e.Status())
	case *card.CardTransactionEvent:
		n.Type = TypeTransaction
		n.Title, n.Message = transactionMessage(e)
	default:
		return nil, false
	}
	return n, true
}

func pointsMessage(e *points.PointsChangedEvent) (string, string) {
	switch e.HistoryType() {
	case points.HistoryEarn, points.HistoryBonus:
		return "Points earned", fmt.Sprintf("You earned %d points. Balance: %d.", e.Points(), e.BalanceAfter())
	case points.HistoryRedeem:
		return "Points used", fmt.Sprintf("%d points were deducted. Balance: %d.", -e.Points(), e.BalanceAfter())
	case points.HistoryRefund:
		return "Points refunded", fmt.Sprintf("%d points were returned. Balance: %d.", e.Points(), e.BalanceAfter())
	}
	return "Points adjusted", fmt.Sprintf("Your points were adjusted by %d. Balance: %d.", e.Points(), e.BalanceAfter())
}

func transactionMessage(e *card.CardTransactionEvent) (string, string) {
	amount := e.Amount().String()
	switch e.TransactionType() {
	case card.TypeLoad:
		return "Card loaded", fmt.Sprintf("%s was added to card %s.", amount, e.MaskedNumber())
	case card.TypePayment:
		return "Payment", fmt.Sprintf("%s was paid with card %s.", amount, e.MaskedNumber())
	case card.TypeRefund:
		return "Refund", fmt.Sprintf("%s was refunded to card %s.", amount, e.MaskedNumber())
	case card.TypeTransferIn:
		return "Transfer received", fmt.Sprintf("%s was transferred to card %s.", amount, e.MaskedNumber())
	case card.TypeTransferOut:
		return "Transfer sent", fmt.Sprintf("%s was transferred from card %s.", amount, e.MaskedNumber())
	}
	return "Card adjusted", fmt.Sprintf("Card %s was adjusted by %s.", e.MaskedNumber(), amount)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
