package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cardapp "github.com/giftee-platform/giftee/src/internal/application/card"
	"github.com/giftee-platform/giftee/src/internal/application/common"
	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	rewardapp "github.com/giftee-platform/giftee/src/internal/application/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/idgen"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/persistence"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/handler"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
)

const testSecret = "test-secret"

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type testApp struct {
	engine *gin.Engine
	clock  *shared.FixedClock
}

// newTestApp 以 SQLite :memory: 組裝完整的 HTTP 堆疊
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf, err := config.Parse([]byte("jwt:\n  secret: " + testSecret + "\n  issuer: test\n"))
	require.NoError(t, err)

	db := persistence.SetupTestDB(t)
	clock := &shared.FixedClock{Time: testNow}

	accounts := persistence.NewAccountRepository(db)
	history := persistence.NewHistoryRepository(db)
	cards := persistence.NewCardRepository(db)
	transactions := persistence.NewTransactionRepository(db)
	rewards := persistence.NewRewardRepository(db)
	redemptions := persistence.NewRedemptionRepository(db)
	inbox := persistence.NewNotificationRepository(db)
	txManager := persistence.NewGORMTransactionManager(db)
	guard := common.NewIdempotencyGuard(persistence.NewIdempotencyRepository(db), clock)
	dispatcher := common.NewEventDispatcher(notification.NewMultiPublisher(notification.NewInboxPublisher(inbox)), nil)

	codes, err := idgen.New(3, "server-test")
	require.NoError(t, err)
	calculator, err := points.NewPointsCalculationService(points.DefaultPointsPerUnit)
	require.NoError(t, err)

	award := pointsapp.NewAwardPointsUseCase(accounts, history, calculator, guard, txManager, dispatcher, clock)
	deduct := pointsapp.NewDeductPointsUseCase(accounts, history, guard, txManager, dispatcher, clock)
	refund := pointsapp.NewRefundPointsUseCase(accounts, history, clock)
	validator := handler.NewValidator()

	handlers := &Handlers{
		Loyalty: &handler.Loyalty{
			Validator:     validator,
			CreateAccount: pointsapp.NewCreateAccountUseCase(accounts, txManager, dispatcher, clock),
			AccountStatus: pointsapp.NewDeactivateAccountUseCase(accounts, txManager, clock),
			Balance:       pointsapp.NewGetBalanceUseCase(accounts),
			TierProgress:  pointsapp.NewGetTierProgressUseCase(accounts),
			History:       pointsapp.NewListHistoryUseCase(history),
			Award:         award,
			Preview:       pointsapp.NewPreviewAwardUseCase(accounts, calculator),
			Deduct:        deduct,
			Bonus:         pointsapp.NewAwardBonusUseCase(accounts, history, guard, txManager, dispatcher, clock),
			Adjust:        pointsapp.NewAdjustPointsUseCase(accounts, history, guard, txManager, dispatcher, clock),
			Reconcile:     pointsapp.NewReconcileUseCase(accounts, history),
		},
		Card: &handler.Card{
			Validator: validator,
			Issue:     cardapp.NewIssueCardUseCase(cards, transactions, codes, guard, txManager, dispatcher, clock, cardapp.Policy{DefaultDailyLoadLimit: shared.MustMoney("50000")}),
			Load:      cardapp.NewLoadCardUseCase(cards, transactions, award, codes, guard, txManager, dispatcher, clock),
			Deduct:    cardapp.NewDeductCardUseCase(cards, transactions, codes, guard, txManager, dispatcher, clock),
			Transfer:  cardapp.NewTransferUseCase(cards, transactions, codes, guard, txManager, dispatcher, clock),
			Void:      cardapp.NewVoidTransactionUseCase(transactions, txManager, dispatcher, clock),
			Refund:    cardapp.NewRefundUseCase(cards, transactions, codes, guard, txManager, dispatcher, clock),
			Status:    cardapp.NewCardStatusUseCase(cards, txManager, dispatcher, clock),
			Query:     cardapp.NewCardQueryUseCase(cards, transactions, clock),
		},
		Reward: &handler.Reward{
			Validator:   validator,
			Catalog:     rewardapp.NewRewardCatalogUseCase(rewards, txManager, clock),
			Redeem:      rewardapp.NewRedeemUseCase(accounts, rewards, redemptions, deduct, codes, guard, txManager, dispatcher, clock, rewardapp.Policy{RedemptionValidity: reward.DefaultRedemptionValidity}),
			Check:       rewardapp.NewCheckRedeemabilityUseCase(accounts, rewards, clock),
			Lifecycle:   rewardapp.NewRedemptionLifecycleUseCase(rewards, redemptions, refund, txManager, dispatcher, clock),
			Expire:      rewardapp.NewExpireRedemptionsUseCase(redemptions, txManager, dispatcher, clock, nil, 10),
			Redemptions: rewardapp.NewRedemptionQueryUseCase(redemptions),
		},
		Notification: &handler.Notification{Inbox: inbox},
	}

	engine := NewGinEngine(conf, handlers, NewAuthenticator(conf), zap.NewNop(), db)
	return &testApp{engine: engine, clock: clock}
}

type user struct {
	id    string
	token string
}

func newUser(t *testing.T, role middleware.Role) user {
	t.Helper()
	id := shared.NewUserID().String()
	claims := middleware.Claims{
		UserID: id,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return user{id: id, token: token}
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

// do 發送請求並解析統一響應；u 為 nil 時不帶 token
func (a *testApp) do(t *testing.T, method, path string, u *user, body interface{}, headers ...string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func decode(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// ===========================
// Test Group 1: 基礎設施端點與認證
// ===========================

// Test 1: /healthz 與 /metrics 不需要認證
func TestHealthzAndMetrics(t *testing.T) {
	// Arrange
	app := newTestApp(t)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	app.engine.ServeHTTP(mw, metricsReq)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
	assert.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), "giftee_http_requests_total")
}

// Test 2: 缺少或無效 token → 401；角色不足 → 403
func TestAuth_RejectsMissingTokenAndRole(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	forged := user{id: customer.id, token: customer.token + "x"}

	// Act
	noTokenStatus, noToken := app.do(t, http.MethodGet, "/api/v1/loyalty/points", nil, nil)
	forgedStatus, _ := app.do(t, http.MethodGet, "/api/v1/loyalty/points", &forged, nil)
	roleStatus, roleEnv := app.do(t, http.MethodPost, "/api/v1/cards/load", &customer, map[string]interface{}{
		"card_id": shared.NewUserID().String(), "amount": "100",
	})

	// Assert
	assert.Equal(t, http.StatusUnauthorized, noTokenStatus)
	assert.False(t, noToken.Success)
	assert.Equal(t, "UNAUTHORIZED", noToken.Error["code"])
	assert.Equal(t, http.StatusUnauthorized, forgedStatus)
	assert.Equal(t, http.StatusForbidden, roleStatus)
	assert.Equal(t, "FORBIDDEN", roleEnv.Error["code"])
}

// Test 3: 公開端點：等級表、獎勵目錄
func TestPublicEndpoints(t *testing.T) {
	// Arrange
	app := newTestApp(t)

	// Act
	tierStatus, tiers := app.do(t, http.MethodGet, "/api/v1/loyalty/tiers", nil, nil)
	rewardStatus, rewards := app.do(t, http.MethodGet, "/api/v1/rewards", nil, nil)
	missingStatus, missing := app.do(t, http.MethodGet, "/api/v1/rewards/"+shared.NewUserID().String(), nil, nil)

	// Assert
	assert.Equal(t, http.StatusOK, tierStatus)
	var table []map[string]interface{}
	require.NoError(t, json.Unmarshal(tiers.Data, &table))
	require.Len(t, table, 4)
	assert.Equal(t, "bronze", table[0]["tier"])

	assert.Equal(t, http.StatusOK, rewardStatus)
	assert.True(t, rewards.Success)

	assert.Equal(t, http.StatusNotFound, missingStatus)
	assert.Equal(t, "REWARD_NOT_FOUND", missing.Error["code"])
}

// ===========================
// Test Group 2: 卡片與積分流程
// ===========================

// Test 4: 發卡 → 儲值（獲得積分）→ 付款 → 查詢積分與通知
func TestCardFlow_IssueLoadDeduct(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	cashier := newUser(t, middleware.RoleCashier)

	// Act
	issueStatus, issued := app.do(t, http.MethodPost, "/api/v1/cards", &cashier, map[string]interface{}{
		"owner_id": customer.id, "initial_balance": "100",
	})
	require.Equal(t, http.StatusCreated, issueStatus)
	cardID := decode(t, issued.Data)["card"].(map[string]interface{})["card_id"].(string)

	loadStatus, loaded := app.do(t, http.MethodPost, "/api/v1/cards/load", &cashier, map[string]interface{}{
		"card_id": cardID, "amount": "500", "method": "cash",
	})
	deductStatus, deducted := app.do(t, http.MethodPost, "/api/v1/cards/deduct", &cashier, map[string]interface{}{
		"card_id": cardID, "amount": "150.50",
		"items": []map[string]interface{}{{"name": "Latte", "quantity": 1, "unit_price": "150.50"}},
	})
	pointsStatus, pts := app.do(t, http.MethodGet, "/api/v1/loyalty/points", &customer, nil)
	_, inbox := app.do(t, http.MethodGet, "/api/v1/notifications", &customer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, loadStatus)
	assert.EqualValues(t, 50, decode(t, loaded.Data)["points_earned"])

	assert.Equal(t, http.StatusOK, deductStatus)
	card := decode(t, deducted.Data)["card"].(map[string]interface{})
	assert.Equal(t, "449.50", card["balance"])

	assert.Equal(t, http.StatusOK, pointsStatus)
	assert.EqualValues(t, 50, decode(t, pts.Data)["total_points"])

	var notifications []map[string]interface{}
	require.NoError(t, json.Unmarshal(inbox.Data, &notifications))
	assert.NotEmpty(t, notifications)
}

// Test 5: 顧客不能自行指定初始餘額；不能查看他人卡片
func TestCardFlow_CustomerRestrictions(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	alice := newUser(t, middleware.RoleCustomer)
	bob := newUser(t, middleware.RoleCustomer)

	// Act
	freeMoneyStatus, _ := app.do(t, http.MethodPost, "/api/v1/cards", &alice, map[string]interface{}{"initial_balance": "1000"})
	issueStatus, issued := app.do(t, http.MethodPost, "/api/v1/cards", &alice, nil)
	require.Equal(t, http.StatusCreated, issueStatus)
	cardID := decode(t, issued.Data)["card"].(map[string]interface{})["card_id"].(string)
	peekStatus, peek := app.do(t, http.MethodGet, "/api/v1/cards/"+cardID, &bob, nil)
	ownStatus, _ := app.do(t, http.MethodGet, "/api/v1/cards/"+cardID, &alice, nil)

	// Assert
	assert.Equal(t, http.StatusForbidden, freeMoneyStatus)
	assert.Equal(t, http.StatusForbidden, peekStatus)
	assert.Equal(t, "CARD_ACCESS_DENIED", peek.Error["code"])
	assert.Equal(t, http.StatusOK, ownStatus)
}

// Test 6: 錯誤映射：驗證 400、金額超出上限 400、餘額不足 422、重複作廢 409
func TestCardFlow_ErrorMapping(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	admin := newUser(t, middleware.RoleAdmin)
	_, issued := app.do(t, http.MethodPost, "/api/v1/cards", &admin, map[string]interface{}{
		"owner_id": customer.id, "initial_balance": "20",
	})
	cardID := decode(t, issued.Data)["card"].(map[string]interface{})["card_id"].(string)

	// Act
	invalidStatus, invalid := app.do(t, http.MethodPost, "/api/v1/cards/load", &admin, map[string]interface{}{"amount": "10"})
	overStatus, over := app.do(t, http.MethodPost, "/api/v1/cards/deduct", &admin, map[string]interface{}{
		"card_id": cardID, "amount": "25",
	})
	_, paid := app.do(t, http.MethodPost, "/api/v1/cards/deduct", &admin, map[string]interface{}{
		"card_id": cardID, "amount": "5",
	})
	txID := decode(t, paid.Data)["transaction"].(map[string]interface{})["transaction_id"].(string)
	voidStatus, _ := app.do(t, http.MethodPost, "/api/v1/transactions/"+txID+"/void", &admin, map[string]interface{}{"reason": "typo"})
	revoidStatus, revoid := app.do(t, http.MethodPost, "/api/v1/transactions/"+txID+"/void", &admin, map[string]interface{}{"reason": "typo"})
	hugeStatus, huge := app.do(t, http.MethodPost, "/api/v1/cards", &admin, map[string]interface{}{
		"owner_id": customer.id, "initial_balance": "92233720368547758.08",
	})

	// Assert
	assert.Equal(t, http.StatusBadRequest, invalidStatus)
	assert.Equal(t, "INVALID_REQUEST", invalid.Error["code"])
	assert.Equal(t, http.StatusUnprocessableEntity, overStatus)
	assert.Equal(t, "INSUFFICIENT_BALANCE", over.Error["code"])
	assert.Equal(t, http.StatusOK, voidStatus)
	assert.Equal(t, http.StatusConflict, revoidStatus)
	assert.Equal(t, "TRANSACTION_ALREADY_VOIDED", revoid.Error["code"])
	assert.Equal(t, http.StatusBadRequest, hugeStatus)
	assert.Equal(t, "AMOUNT_INVALID", huge.Error["code"])
}

// Test 7: 相同 Idempotency-Key 的儲值只入帳一次
func TestCardFlow_IdempotencyKeyHeader(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	cashier := newUser(t, middleware.RoleCashier)
	_, issued := app.do(t, http.MethodPost, "/api/v1/cards", &cashier, map[string]interface{}{"owner_id": customer.id})
	cardID := decode(t, issued.Data)["card"].(map[string]interface{})["card_id"].(string)
	body := map[string]interface{}{"card_id": cardID, "amount": "300"}

	// Act
	firstStatus, first := app.do(t, http.MethodPost, "/api/v1/cards/load", &cashier, body, handler.HeaderIdempotencyKey, "load-1")
	secondStatus, second := app.do(t, http.MethodPost, "/api/v1/cards/load", &cashier, body, handler.HeaderIdempotencyKey, "load-1")
	_, balance := app.do(t, http.MethodGet, "/api/v1/cards/balance?card_id="+cardID, &customer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, firstStatus)
	assert.Equal(t, http.StatusOK, secondStatus)
	firstTx := decode(t, first.Data)["transaction"].(map[string]interface{})["transaction_id"]
	secondTx := decode(t, second.Data)["transaction"].(map[string]interface{})["transaction_id"]
	assert.Equal(t, firstTx, secondTx)
	assert.Equal(t, "300.00", decode(t, balance.Data)["balance"])
}

// ===========================
// Test Group 3: 兌換流程
// ===========================

// Test 8: 管理員建立獎勵 → 顧客兌換 → 積分不足 422 → 管理員取消退回積分
func TestRewardFlow_RedeemAndCancel(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	admin := newUser(t, middleware.RoleAdmin)

	createStatus, created := app.do(t, http.MethodPost, "/api/v1/rewards", &admin, map[string]interface{}{
		"name": "Coffee voucher", "category": "beverage", "points_cost": 80, "stock": 5,
	})
	require.Equal(t, http.StatusCreated, createStatus)
	rewardID := decode(t, created.Data)["reward_id"].(string)

	bonusStatus, _ := app.do(t, http.MethodPost, "/api/v1/loyalty/bonus", &admin, map[string]interface{}{
		"user_id": customer.id, "points": 100,
	})
	require.Equal(t, http.StatusOK, bonusStatus)

	// Act
	checkStatus, check := app.do(t, http.MethodGet, "/api/v1/rewards/"+rewardID+"/check", &customer, nil)
	redeemStatus, redeemed := app.do(t, http.MethodPost, "/api/v1/rewards/"+rewardID+"/redeem", &customer, map[string]interface{}{"notes": "pickup"})
	againStatus, again := app.do(t, http.MethodPost, "/api/v1/rewards/"+rewardID+"/redeem", &customer, nil)
	redemptionID := decode(t, redeemed.Data)["redemption"].(map[string]interface{})["redemption_id"].(string)
	customerCancelStatus, _ := app.do(t, http.MethodPost, "/api/v1/redemptions/"+redemptionID+"/cancel", &customer, nil)
	cancelStatus, cancelled := app.do(t, http.MethodPost, "/api/v1/redemptions/"+redemptionID+"/cancel", &admin, nil)
	_, pts := app.do(t, http.MethodGet, "/api/v1/loyalty/points", &customer, nil)
	_, mine := app.do(t, http.MethodGet, "/api/v1/redemptions", &customer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, checkStatus)
	assert.Equal(t, true, decode(t, check.Data)["can_redeem"])

	assert.Equal(t, http.StatusCreated, redeemStatus)
	assert.EqualValues(t, 20, decode(t, redeemed.Data)["points_remaining"])

	assert.Equal(t, http.StatusUnprocessableEntity, againStatus)
	assert.Equal(t, "POINTS_INSUFFICIENT", again.Error["code"])

	assert.Equal(t, http.StatusForbidden, customerCancelStatus)
	assert.Equal(t, http.StatusOK, cancelStatus)
	assert.Equal(t, "cancelled", decode(t, cancelled.Data)["status"])
	assert.EqualValues(t, 100, decode(t, pts.Data)["total_points"])

	list := decode(t, mine.Data)
	assert.EqualValues(t, 1, list["page_info"].(map[string]interface{})["total"])
}

// Test 9: 管理員手動觸發過期批次
func TestRewardFlow_ManualExpire(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	admin := newUser(t, middleware.RoleAdmin)
	_, created := app.do(t, http.MethodPost, "/api/v1/rewards", &admin, map[string]interface{}{
		"name": "Cinema ticket", "category": "entertainment", "points_cost": 10,
	})
	rewardID := decode(t, created.Data)["reward_id"].(string)
	app.do(t, http.MethodPost, "/api/v1/loyalty/bonus", &admin, map[string]interface{}{"user_id": customer.id, "points": 10})
	redeemStatus, _ := app.do(t, http.MethodPost, "/api/v1/rewards/"+rewardID+"/redeem", &customer, nil)
	require.Equal(t, http.StatusCreated, redeemStatus)

	// Act
	app.clock.Advance(31 * 24 * time.Hour)
	expireStatus, expired := app.do(t, http.MethodPost, "/api/v1/redemptions/expire", &admin, nil)
	_, list := app.do(t, http.MethodGet, "/api/v1/redemptions?status=expired", &customer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, expireStatus)
	assert.EqualValues(t, 1, decode(t, expired.Data)["expired"])
	assert.EqualValues(t, 1, decode(t, list.Data)["page_info"].(map[string]interface{})["total"])
}

// ===========================
// Test Group 4: 櫃檯積分操作
// ===========================

// Test 10: 試算依目前等級；櫃檯扣減積分；積分不足 422；顧客不能扣減
func TestLoyaltyFlow_CalculateAndCashierRedeem(t *testing.T) {
	// Arrange
	app := newTestApp(t)
	customer := newUser(t, middleware.RoleCustomer)
	cashier := newUser(t, middleware.RoleCashier)
	admin := newUser(t, middleware.RoleAdmin)
	bonusStatus, _ := app.do(t, http.MethodPost, "/api/v1/loyalty/bonus", &admin, map[string]interface{}{
		"user_id": customer.id, "points": 600,
	})
	require.Equal(t, http.StatusOK, bonusStatus)

	// Act
	calcStatus, calc := app.do(t, http.MethodGet, "/api/v1/loyalty/calculate?amount=1000", &customer, nil)
	badCalcStatus, badCalc := app.do(t, http.MethodGet, "/api/v1/loyalty/calculate?amount=abc", &customer, nil)
	redeemStatus, redeemed := app.do(t, http.MethodPost, "/api/v1/loyalty/redeem", &cashier, map[string]interface{}{
		"user_id": customer.id, "points": 200, "reason": "Free drink",
	})
	overStatus, over := app.do(t, http.MethodPost, "/api/v1/loyalty/redeem", &cashier, map[string]interface{}{
		"user_id": customer.id, "points": 1000, "reason": "Too much",
	})
	selfStatus, _ := app.do(t, http.MethodPost, "/api/v1/loyalty/redeem", &customer, map[string]interface{}{
		"user_id": customer.id, "points": 10, "reason": "Self service",
	})
	_, pts := app.do(t, http.MethodGet, "/api/v1/loyalty/points", &customer, nil)

	// Assert
	assert.Equal(t, http.StatusOK, calcStatus)
	preview := decode(t, calc.Data)
	assert.EqualValues(t, 125, preview["points"])
	assert.Equal(t, "1.25", preview["multiplier"])
	assert.Equal(t, "silver", preview["tier"])

	assert.Equal(t, http.StatusBadRequest, badCalcStatus)
	assert.Equal(t, "INVALID_REQUEST", badCalc.Error["code"])

	assert.Equal(t, http.StatusOK, redeemStatus)
	assert.EqualValues(t, 200, decode(t, redeemed.Data)["points_deducted"])
	assert.EqualValues(t, 400, decode(t, redeemed.Data)["new_balance"])

	assert.Equal(t, http.StatusUnprocessableEntity, overStatus)
	assert.Equal(t, "POINTS_INSUFFICIENT", over.Error["code"])
	assert.Equal(t, http.StatusForbidden, selfStatus)

	balance := decode(t, pts.Data)
	assert.EqualValues(t, 400, balance["total_points"])
	assert.EqualValues(t, 600, balance["lifetime_points"])
}
