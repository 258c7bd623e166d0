package reward

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// DefaultRedemptionValidity 兌換碼有效期
const DefaultRedemptionValidity = 30 * 24 * time.Hour

// Status 兌換狀態
type Status string

// 兌換狀態
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// ParseStatus 解析兌換狀態
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusExpired:
		return st, nil
	}
	return "", ErrInvalidRedemptionStatus.WithContext("input", s)
}

// IsOpen pending 或 processing（尚未結束）
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusProcessing
}

// transitions 允許的狀態轉換
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusExpired},
	StatusProcessing: {StatusCompleted, StatusCancelled, StatusExpired},
}

// CanTransitionTo 狀態機檢查
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DeliveryAddress 實體獎勵的寄送地址
type DeliveryAddress struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ===========================
// Redemption 兌換記錄
// ===========================

// Redemption 兌換記錄
//
// 不變條件：
// - pointsSpent == 兌換當下的 reward.pointsCost × quantity（價格快照，不隨獎勵修改而變）
// - 狀態：pending → processing → completed；pending|processing → cancelled|expired
type Redemption struct {
	redemptionID RedemptionID
	userID       shared.UserID
	rewardID     RewardID
	rewardName   string

	pointsSpent int
	quantity    int
	status      Status
	code        string
	expiresAt   time.Time
	usedAt      *time.Time

	notes           string
	deliveryAddress *DeliveryAddress

	version   int
	createdAt time.Time
	updatedAt time.Time

	events shared.EventRecorder
}

// NewRedemption 建立兌換記錄（價格快照）
func NewRedemption(
	userID shared.UserID,
	r *Reward,
	quantity int,
	code string,
	address *DeliveryAddress,
	notes string,
	validity time.Duration,
	now time.Time,
) (*Redemption, error) {
	cost, err := r.TotalCost(quantity)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrRedemptionCodeConflict.WithContext("reason", "code cannot be empty")
	}
	if validity <= 0 {
		validity = DefaultRedemptionValidity
	}

	red := &Redemption{
		redemptionID:    NewRedemptionID(),
		userID:          userID,
		rewardID:        r.rewardID,
		rewardName:      r.name,
		pointsSpent:     cost,
		quantity:        quantity,
		status:          StatusPending,
		code:            code,
		expiresAt:       now.Add(validity),
		notes:           notes,
		deliveryAddress: address,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
	red.events.Record(NewRedemptionCreatedEvent(red))
	return red, nil
}

// RedemptionSnapshot 重建 Redemption 所需欄位（僅供 Repository 使用）
type RedemptionSnapshot struct {
	RedemptionID    RedemptionID
	UserID          shared.UserID
	RewardID        RewardID
	RewardName      string
	PointsSpent     int
	Quantity        int
	Status          Status
	Code            string
	ExpiresAt       time.Time
	UsedAt          *time.Time
	Notes           string
	DeliveryAddress *DeliveryAddress
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructRedemption 從持久化存儲重建
func ReconstructRedemption(s RedemptionSnapshot) (*Redemption, error) {
	if s.RedemptionID.IsEmpty() {
		return nil, ErrInvalidRedemptionID.WithContext("reason", "invalid redemption ID in database")
	}
	if _, err := ParseStatus(string(s.Status)); err != nil {
		return nil, err
	}
	return &Redemption{
		redemptionID:    s.RedemptionID,
		userID:          s.UserID,
		rewardID:        s.RewardID,
		rewardName:      s.RewardName,
		pointsSpent:     s.PointsSpent,
		quantity:        s.Quantity,
		status:          s.Status,
		code:            s.Code,
		expiresAt:       s.ExpiresAt,
		usedAt:          s.UsedAt,
		notes:           s.Notes,
		deliveryAddress: s.DeliveryAddress,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}, nil
}

// RedemptionID 兌換 ID
func (r *Redemption) RedemptionID() RedemptionID { return r.redemptionID }

// UserID 兌換人
func (r *Redemption) UserID() shared.UserID { return r.userID }

// RewardID 獎勵 ID
func (r *Redemption) RewardID() RewardID { return r.rewardID }

// RewardName 兌換當下的獎勵名稱
func (r *Redemption) RewardName() string { return r.rewardName }

// PointsSpent 花費積分
func (r *Redemption) PointsSpent() int { return r.pointsSpent }

// Quantity 數量
func (r *Redemption) Quantity() int { return r.quantity }

// Status 狀態
func (r *Redemption) Status() Status { return r.status }

// Code 兌換碼
func (r *Redemption) Code() string { return r.code }

// ExpiresAt 到期時間
func (r *Redemption) ExpiresAt() time.Time { return r.expiresAt }

// UsedAt 使用（完成）時間
func (r *Redemption) UsedAt() *time.Time { return r.usedAt }

// Notes 備註
func (r *Redemption) Notes() string { return r.notes }

// DeliveryAddress 寄送地址
func (r *Redemption) DeliveryAddress() *DeliveryAddress { return r.deliveryAddress }

// Version 樂觀鎖版本號
func (r *Redemption) Version() int { return r.version }

// CreatedAt 建立時間
func (r *Redemption) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt 最後更新時間
func (r *Redemption) UpdatedAt() time.Time { return r.updatedAt }

// IsExpiredAt 是否已超過有效期且仍未結束
func (r *Redemption) IsExpiredAt(now time.Time) bool {
	return r.status.IsOpen() && now.After(r.expiresAt)
}

// PullEvents 取出待發布事件
func (r *Redemption) PullEvents() []shared.DomainEvent {
	return r.events.PullEvents()
}

// IncrementVersion 版本號 +1（僅供 Repository 在條件更新成功後調用）
func (r *Redemption) IncrementVersion() {
	r.version++
}

// ===========================
// 狀態轉換
// ===========================

// Process pending → processing
func (r *Redemption) Process(now time.Time) error {
	return r.transition(StatusProcessing, now)
}

// Complete processing → completed（記錄使用時間）
func (r *Redemption) Complete(now time.Time) error {
	if err := r.transition(StatusCompleted, now); err != nil {
		return err
	}
	usedAt := now
	r.usedAt = &usedAt
	return nil
}

// Cancel pending|processing → cancelled（積分退回由 Use Case 處理）
func (r *Redemption) Cancel(now time.Time) error {
	return r.transition(StatusCancelled, now)
}

// Expire pending|processing → expired（不退回積分）
func (r *Redemption) Expire(now time.Time) error {
	return r.transition(StatusExpired, now)
}

func (r *Redemption) transition(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidRedemptionTransition.WithContext(
			"redemption_id", r.redemptionID.String(),
			"from", string(r.status),
			"to", string(next),
		)
	}
	r.status = next
	r.updatedAt = now
	r.events.Record(NewRedemptionStatusChangedEvent(r))
	return nil
}
