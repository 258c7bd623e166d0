package card

import (
	"time"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// DefaultCurrency 預設幣別
const DefaultCurrency = "THB"

// DefaultDailyLoadLimit 每日儲值上限預設值
var DefaultDailyLoadLimit = shared.MustMoney("50000")

// ===========================
// Card 聚合根
// ===========================

// Card 禮品卡聚合根
//
// 狀態機：inactive --Activate--> active --Deactivate--> inactive
// 所有餘額操作只能在 active 狀態進行。
//
// 業務不變條件：
// - balance >= 0
// - dailyLoadedToday <= dailyLoadLimit（按當地日曆日重置）
// - 每次餘額變更都產生一筆 Transaction，兩者在同一事務中持久化
type Card struct {
	cardID     CardID
	ownerID    shared.UserID
	cardNumber string
	currency   string

	balance           shared.Money
	dailyLoadLimit    shared.Money
	dailyLoadedToday  shared.Money
	lastLoadResetDate string // LocalDay 格式（2006-01-02）

	isActive    bool
	activatedAt *time.Time
	lastUsedAt  *time.Time

	version   int
	createdAt time.Time
	updatedAt time.Time

	events shared.EventRecorder
}

// NewCard 發行新卡（建立即啟用）
func NewCard(ownerID shared.UserID, cardNumber string, dailyLoadLimit shared.Money, now time.Time) (*Card, error) {
	if ownerID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "owner cannot be empty")
	}
	if cardNumber == "" {
		return nil, ErrCardNumberConflict.WithContext("reason", "card number cannot be empty")
	}
	if dailyLoadLimit.IsZero() {
		dailyLoadLimit = DefaultDailyLoadLimit
	}

	activatedAt := now
	c := &Card{
		cardID:            NewCardID(),
		ownerID:           ownerID,
		cardNumber:        cardNumber,
		currency:          DefaultCurrency,
		balance:           shared.ZeroMoney(),
		dailyLoadLimit:    dailyLoadLimit,
		dailyLoadedToday:  shared.ZeroMoney(),
		lastLoadResetDate: shared.LocalDay(now),
		isActive:          true,
		activatedAt:       &activatedAt,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}
	c.events.Record(NewCardIssuedEvent(c, now))
	return c, nil
}

// CardSnapshot 重建 Card 所需欄位（僅供 Repository 使用）
type CardSnapshot struct {
	CardID            CardID
	OwnerID           shared.UserID
	CardNumber        string
	Currency          string
	Balance           shared.Money
	DailyLoadLimit    shared.Money
	DailyLoadedToday  shared.Money
	LastLoadResetDate string
	IsActive          bool
	ActivatedAt       *time.Time
	LastUsedAt        *time.Time
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReconstructCard 從持久化存儲重建聚合根
func ReconstructCard(s CardSnapshot) (*Card, error) {
	if s.CardID.IsEmpty() {
		return nil, ErrInvalidCardID.WithContext("reason", "invalid card ID in database")
	}
	if s.OwnerID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "invalid owner ID in database")
	}
	if s.DailyLoadedToday.GreaterThan(s.DailyLoadLimit) {
		return nil, ErrCorruptedCard.WithContext(
			"card_id", s.CardID.String(),
			"daily_loaded_today", s.DailyLoadedToday.String(),
			"daily_load_limit", s.DailyLoadLimit.String(),
		)
	}

	return &Card{
		cardID:            s.CardID,
		ownerID:           s.OwnerID,
		cardNumber:        s.CardNumber,
		currency:          s.Currency,
		balance:           s.Balance,
		dailyLoadLimit:    s.DailyLoadLimit,
		dailyLoadedToday:  s.DailyLoadedToday,
		lastLoadResetDate: s.LastLoadResetDate,
		isActive:          s.IsActive,
		activatedAt:       s.ActivatedAt,
		lastUsedAt:        s.LastUsedAt,
		version:           s.Version,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}, nil
}

// ===========================
// 查詢方法
// ===========================

// CardID 卡片 ID
func (c *Card) CardID() CardID { return c.cardID }

// OwnerID 持有人
func (c *Card) OwnerID() shared.UserID { return c.ownerID }

// CardNumber 卡號
func (c *Card) CardNumber() string { return c.cardNumber }

// Currency 幣別
func (c *Card) Currency() string { return c.currency }

// Balance 餘額
func (c *Card) Balance() shared.Money { return c.balance }

// DailyLoadLimit 每日儲值上限
func (c *Card) DailyLoadLimit() shared.Money { return c.dailyLoadLimit }

// DailyLoadedToday 今日已儲值（持久化值，未套用日期重置）
func (c *Card) DailyLoadedToday() shared.Money { return c.dailyLoadedToday }

// LastLoadResetDate 最後重置日
func (c *Card) LastLoadResetDate() string { return c.lastLoadResetDate }

// IsActive 是否啟用
func (c *Card) IsActive() bool { return c.isActive }

// ActivatedAt 啟用時間
func (c *Card) ActivatedAt() *time.Time { return c.activatedAt }

// LastUsedAt 最後使用時間
func (c *Card) LastUsedAt() *time.Time { return c.lastUsedAt }

// Version 樂觀鎖版本號
func (c *Card) Version() int { return c.version }

// CreatedAt 建立時間
func (c *Card) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt 最後更新時間
func (c *Card) UpdatedAt() time.Time { return c.updatedAt }

// MaskedNumber 遮罩卡號（****1234）
func (c *Card) MaskedNumber() string {
	if c.cardNumber == "" {
		return ""
	}
	if len(c.cardNumber) <= 4 {
		return "****" + c.cardNumber
	}
	return "****" + c.cardNumber[len(c.cardNumber)-4:]
}

// LoadedOn 指定時間所在日曆日的已儲值金額（跨日視為 0）
func (c *Card) LoadedOn(now time.Time) shared.Money {
	if c.lastLoadResetDate != shared.LocalDay(now) {
		return shared.ZeroMoney()
	}
	return c.dailyLoadedToday
}

// CanLoad (dailyLoadedToday + amount) <= dailyLoadLimit；純查詢，不變更狀態
func (c *Card) CanLoad(amount shared.Money, now time.Time) bool {
	return !c.LoadedOn(now).Add(amount).GreaterThan(c.dailyLoadLimit)
}

// PullEvents 取出待發布事件
func (c *Card) PullEvents() []shared.DomainEvent {
	return c.events.PullEvents()
}

// IncrementVersion 版本號 +1（僅供 Repository 在條件更新成功後調用）
func (c *Card) IncrementVersion() {
	c.version++
}

// ===========================
// 命令方法
// ===========================

// Load 儲值
//
// 前置條件：卡片啟用、金額 > 0、不超過每日上限。失敗時狀態不變。
// 返回的交易尚未設定 pointsEarned，由 Use Case 計算積分後填入。
func (c *Card) Load(amount shared.Money, method string, op Operation) (*Transaction, error) {
	if err := c.ensureOperable(amount); err != nil {
		return nil, err
	}
	if !c.CanLoad(amount, op.Now) {
		return nil, ErrDailyLimitExceeded.WithContext(
			"card_id", c.cardID.String(),
			"amount", amount.String(),
			"loaded_today", c.LoadedOn(op.Now).String(),
			"daily_limit", c.dailyLoadLimit.String(),
		)
	}
	if method == "" {
		method = LoadMethodCash
	}

	// 跨日重置：以當地日曆日字串比較，而不是經過的小時數
	c.rollover(op.Now)

	before := c.balance
	c.balance = c.balance.Add(amount)
	c.dailyLoadedToday = c.dailyLoadedToday.Add(amount)
	c.touch(op.Now)

	tx := newTransaction(c, TypeLoad, amount, before, LoadDetails{Method: method}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// SeedInitialBalance 發卡時的初始餘額（記為 load 交易，不計入每日額度、不產生積分）
func (c *Card) SeedInitialBalance(amount shared.Money, op Operation) (*Transaction, error) {
	if err := c.ensureOperable(amount); err != nil {
		return nil, err
	}

	before := c.balance
	c.balance = c.balance.Add(amount)
	c.updatedAt = op.Now

	tx := newTransaction(c, TypeLoad, amount, before, LoadDetails{Method: LoadMethodInitial}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// Deduct 付款扣款
func (c *Card) Deduct(amount shared.Money, items []PaymentItem, op Operation) (*Transaction, error) {
	before, err := c.debit(amount, op.Now)
	if err != nil {
		return nil, err
	}

	tx := newTransaction(c, TypePayment, amount, before, PaymentDetails{Items: items}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// TransferOut 轉出（與對方卡片的 TransferIn 在同一事務中執行）
func (c *Card) TransferOut(amount shared.Money, transferID TransferID, to CardID, op Operation) (*Transaction, error) {
	if c.cardID.Equals(to) {
		return nil, ErrSameCardTransfer.WithContext("card_id", c.cardID.String())
	}
	before, err := c.debit(amount, op.Now)
	if err != nil {
		return nil, err
	}

	tx := newTransaction(c, TypeTransferOut, amount, before, TransferDetails{TransferID: transferID, CounterpartyCardID: to}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// TransferIn 轉入
//
// 轉入不是儲值，不計入每日儲值額度。
func (c *Card) TransferIn(amount shared.Money, transferID TransferID, from CardID, op Operation) (*Transaction, error) {
	if c.cardID.Equals(from) {
		return nil, ErrSameCardTransfer.WithContext("card_id", c.cardID.String())
	}
	if err := c.ensureOperable(amount); err != nil {
		return nil, err
	}

	before := c.balance
	c.balance = c.balance.Add(amount)
	c.touch(op.Now)

	tx := newTransaction(c, TypeTransferIn, amount, before, TransferDetails{TransferID: transferID, CounterpartyCardID: from}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// RefundPayment 退款入帳（補償一筆付款交易）
//
// 退款不要求卡片啟用：停用的卡也應該能收到退款。
func (c *Card) RefundPayment(payment *Transaction, op Operation) (*Transaction, error) {
	if !payment.CardID().Equals(c.cardID) {
		return nil, ErrNotRefundable.WithContext(
			"transaction_id", payment.TransactionID().String(),
			"reason", "transaction belongs to another card",
		)
	}
	if err := payment.CheckRefundable(); err != nil {
		return nil, err
	}

	before := c.balance
	c.balance = c.balance.Add(payment.Amount())
	c.updatedAt = op.Now

	tx := newTransaction(c, TypeRefund, payment.Amount(), before, RefundDetails{OriginalTransactionID: payment.TransactionID()}, op)
	c.events.Record(NewCardTransactionEvent(c, tx))
	return tx, nil
}

// Activate 啟用（冪等）
func (c *Card) Activate(now time.Time) {
	if c.isActive {
		return
	}
	activatedAt := now
	c.isActive = true
	c.activatedAt = &activatedAt
	c.updatedAt = now
	c.events.Record(NewCardStatusChangedEvent(c, now))
}

// Deactivate 停用（冪等）
func (c *Card) Deactivate(now time.Time) {
	if !c.isActive {
		return
	}
	c.isActive = false
	c.updatedAt = now
	c.events.Record(NewCardStatusChangedEvent(c, now))
}

// ===========================
// 私有輔助方法
// ===========================

func (c *Card) ensureOperable(amount shared.Money) error {
	if !c.isActive {
		return ErrCardInactive.WithContext("card_id", c.cardID.String())
	}
	if amount.IsZero() {
		return shared.ErrInvalidAmount.WithContext("amount", amount.String(), "reason", "must be positive")
	}
	return nil
}

func (c *Card) debit(amount shared.Money, now time.Time) (shared.Money, error) {
	if err := c.ensureOperable(amount); err != nil {
		return shared.Money{}, err
	}
	remaining, ok := c.balance.Sub(amount)
	if !ok {
		return shared.Money{}, ErrInsufficientBalance.WithContext(
			"card_id", c.cardID.String(),
			"balance", c.balance.String(),
			"amount", amount.String(),
		)
	}

	before := c.balance
	c.balance = remaining
	c.touch(now)
	return before, nil
}

func (c *Card) rollover(now time.Time) {
	today := shared.LocalDay(now)
	if c.lastLoadResetDate != today {
		c.dailyLoadedToday = shared.ZeroMoney()
		c.lastLoadResetDate = today
	}
}

func (c *Card) touch(now time.Time) {
	usedAt := now
	c.lastUsedAt = &usedAt
	c.updatedAt = now
}
