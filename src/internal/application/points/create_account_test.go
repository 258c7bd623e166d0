package points

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// ===========================
// CreateAccount Use Case 測試
// ===========================

// Test 1: 成功創建積分帳戶
func TestCreateAccountUseCase_Success(t *testing.T) {
	// Arrange
	mockRepo := NewMockAccountRepository()
	mockTxManager := NewMockTransactionManager()
	publisher := &MockEventPublisher{}
	useCase := NewCreateAccountUseCase(mockRepo, mockTxManager, common.NewEventDispatcher(publisher, nil), &shared.FixedClock{Time: testNow})

	userID := shared.NewUserID()

	// Act
	result, err := useCase.Execute(context.Background(), CreateAccountCommand{UserID: userID.String()})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccountID)
	assert.Equal(t, userID.String(), result.UserID)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, "bronze", result.Tier)
	assert.Equal(t, testNow, result.CreatedAt)

	// 驗證 Repository 與 TransactionManager 被調用
	assert.Equal(t, 1, mockRepo.SaveCallCount)
	assert.Equal(t, 1, mockTxManager.InTransactionCallCount)
	// 提交後發布 AccountCreated
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, points.EventAccountCreated, publisher.Events[0].EventType())
}

// Test 2: 用戶已有帳戶，返回錯誤且不發布事件
func TestCreateAccountUseCase_UserAlreadyHasAccount_ReturnsError(t *testing.T) {
	// Arrange
	mockRepo := NewMockAccountRepository()
	mockTxManager := NewMockTransactionManager()
	publisher := &MockEventPublisher{}
	useCase := NewCreateAccountUseCase(mockRepo, mockTxManager, common.NewEventDispatcher(publisher, nil), &shared.FixedClock{Time: testNow})

	userID := shared.NewUserID()
	existing, _ := points.NewAccount(userID, testNow)
	mockRepo.accounts[userID.String()] = existing

	// Act
	result, err := useCase.Execute(context.Background(), CreateAccountCommand{UserID: userID.String()})

	// Assert
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, points.ErrAccountAlreadyExists), "error should wrap ErrAccountAlreadyExists")
	assert.Equal(t, 1, mockRepo.SaveCallCount)
	assert.Empty(t, publisher.Events)
}

// Test 3: 無效的 UserID 格式
func TestCreateAccountUseCase_InvalidUserID_ReturnsError(t *testing.T) {
	// Arrange
	mockRepo := NewMockAccountRepository()
	useCase := NewCreateAccountUseCase(mockRepo, NewMockTransactionManager(), common.NewEventDispatcher(nil, nil), &shared.FixedClock{Time: testNow})

	// Act
	result, err := useCase.Execute(context.Background(), CreateAccountCommand{UserID: "not-a-uuid"})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrInvalidUserID)
	assert.Equal(t, 0, mockRepo.SaveCallCount)
}

// Test 4: 事務失敗時不發布事件
func TestCreateAccountUseCase_TransactionFails(t *testing.T) {
	// Arrange
	mockTxManager := NewMockTransactionManager()
	mockTxManager.ShouldFail = true
	publisher := &MockEventPublisher{}
	useCase := NewCreateAccountUseCase(NewMockAccountRepository(), mockTxManager, common.NewEventDispatcher(publisher, nil), &shared.FixedClock{Time: testNow})

	// Act
	_, err := useCase.Execute(context.Background(), CreateAccountCommand{UserID: shared.NewUserID().String()})

	// Assert
	assert.Error(t, err)
	assert.Empty(t, publisher.Events)
}

// ===========================
// Mock 實作
// ===========================

// MockAccountRepository 積分帳戶倉儲 Mock（以 UserID 為 key）
type MockAccountRepository struct {
	accounts        map[string]*points.Account
	SaveCallCount   int
	UpdateCallCount int
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*points.Account)}
}

func (m *MockAccountRepository) Save(ctx shared.TransactionContext, account *points.Account) error {
	m.SaveCallCount++
	key := account.UserID().String()
	if _, exists := m.accounts[key]; exists {
		return points.ErrAccountAlreadyExists.WithContext("user_id", key)
	}
	m.accounts[key] = account
	return nil
}

func (m *MockAccountRepository) FindByID(ctx shared.TransactionContext, accountID points.AccountID) (*points.Account, error) {
	for _, account := range m.accounts {
		if account.AccountID().Equals(accountID) {
			return account, nil
		}
	}
	return nil, points.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByUserID(ctx shared.TransactionContext, userID shared.UserID) (*points.Account, error) {
	account, ok := m.accounts[userID.String()]
	if !ok {
		return nil, points.ErrAccountNotFound
	}
	return account, nil
}

func (m *MockAccountRepository) Update(ctx shared.TransactionContext, account *points.Account) error {
	m.UpdateCallCount++
	if _, ok := m.accounts[account.UserID().String()]; !ok {
		return points.ErrAccountNotFound
	}
	m.accounts[account.UserID().String()] = account
	account.IncrementVersion()
	return nil
}

// MockHistoryRepository 積分流水倉儲 Mock
type MockHistoryRepository struct {
	entries []*points.PointHistory
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Append(ctx shared.TransactionContext, entry *points.PointHistory) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockHistoryRepository) FindByID(ctx shared.TransactionContext, id points.HistoryID) (*points.PointHistory, error) {
	for _, entry := range m.entries {
		if entry.HistoryID().Equals(id) {
			return entry, nil
		}
	}
	return nil, points.ErrHistoryNotFound
}

func (m *MockHistoryRepository) List(ctx shared.TransactionContext, filter points.HistoryFilter) ([]*points.PointHistory, int64, error) {
	var out []*points.PointHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if !entry.UserID().Equals(filter.UserID) {
			continue
		}
		if filter.Type != "" && entry.Type() != filter.Type {
			continue
		}
		out = append(out, entry)
	}
	return out, int64(len(out)), nil
}

func (m *MockHistoryRepository) SumByUser(ctx shared.TransactionContext, userID shared.UserID) (int, error) {
	sum := 0
	for _, entry := range m.entries {
		if entry.UserID().Equals(userID) {
			sum += entry.Points()
		}
	}
	return sum, nil
}

// MockTransactionManager 事務管理器 Mock（直接執行 fn，不做回滾）
type MockTransactionManager struct {
	InTransactionCallCount int
	ShouldFail             bool
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	if m.ShouldFail {
		return errors.New("mock transaction failed")
	}
	return fn(nil)
}

// MockEventPublisher 記錄已發布的事件
type MockEventPublisher struct {
	Events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	m.Events = append(m.Events, events...)
	return nil
}
