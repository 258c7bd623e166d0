package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// ===========================
// Test Group 1: IdempotencyGuard
// ===========================

// Test 1: 空 key 不查詢也不寫入
func TestIdempotencyGuard_EmptyKey(t *testing.T) {
	// Arrange
	repo := newMockIdempotencyRepository()
	guard := NewIdempotencyGuard(repo, &shared.FixedClock{Time: testNow})

	// Act
	_, replay, err := guard.Lookup(nil, "", "card.load")
	require.NoError(t, err)
	err = guard.Remember(nil, "", "card.load", "tx-1")

	// Assert
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Equal(t, 0, repo.FindCallCount)
	assert.Empty(t, repo.records)
}

// Test 2: 記錄後再次查詢返回第一次的資源 ID
func TestIdempotencyGuard_RememberThenReplay(t *testing.T) {
	// Arrange
	repo := newMockIdempotencyRepository()
	guard := NewIdempotencyGuard(repo, &shared.FixedClock{Time: testNow})

	_, replay, err := guard.Lookup(nil, "key-1", "card.load")
	require.NoError(t, err)
	require.False(t, replay)

	// Act
	require.NoError(t, guard.Remember(nil, "key-1", "card.load", "tx-1"))
	resourceID, replay, err := guard.Lookup(nil, "key-1", "card.load")

	// Assert
	require.NoError(t, err)
	assert.True(t, replay)
	assert.Equal(t, "tx-1", resourceID)
	assert.Equal(t, testNow, repo.records["key-1"].CreatedAt)
}

// Test 3: 同一個 key 用在不同操作 → ErrDuplicateRequest
func TestIdempotencyGuard_DifferentOperation(t *testing.T) {
	repo := newMockIdempotencyRepository()
	guard := NewIdempotencyGuard(repo, &shared.FixedClock{Time: testNow})
	require.NoError(t, guard.Remember(nil, "key-1", "card.load", "tx-1"))

	_, _, err := guard.Lookup(nil, "key-1", "reward.redeem")

	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
}

// Test 4: 重複寫入保留 ErrDuplicateRequest
func TestIdempotencyGuard_DuplicateSave(t *testing.T) {
	repo := newMockIdempotencyRepository()
	guard := NewIdempotencyGuard(repo, &shared.FixedClock{Time: testNow})
	require.NoError(t, guard.Remember(nil, "key-1", "card.load", "tx-1"))

	err := guard.Remember(nil, "key-1", "card.load", "tx-2")

	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
}

// ===========================
// Test Group 2: 事件派發
// ===========================

// Test 5: Collect 取出聚合根事件並清空
func TestEventBuffer_Collect(t *testing.T) {
	// Arrange
	account, err := points.NewAccount(shared.NewUserID(), testNow)
	require.NoError(t, err)
	var buffer EventBuffer

	// Act
	buffer.Collect(account)
	buffer.Collect(account)

	// Assert
	require.Len(t, buffer.Events(), 1)
	assert.Equal(t, points.EventAccountCreated, buffer.Events()[0].EventType())
}

// Test 6: 發布失敗只記錄 Warn 日誌
func TestEventDispatcher_PublishFailureIsLogged(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.WarnLevel)
	publisher := &mockPublisher{err: errors.New("redis down")}
	dispatcher := NewEventDispatcher(publisher, zap.New(core))
	account, err := points.NewAccount(shared.NewUserID(), testNow)
	require.NoError(t, err)

	// Act
	dispatcher.Dispatch(context.Background(), "points.create_account", account.PullEvents())

	// Assert
	assert.Equal(t, 1, publisher.calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "points.create_account", logs.All()[0].ContextMap()["operation"])
}

// Test 7: 沒有 publisher 或沒有事件時不做任何事
func TestEventDispatcher_NoOp(t *testing.T) {
	publisher := &mockPublisher{}

	NewEventDispatcher(nil, nil).Dispatch(context.Background(), "op", []shared.DomainEvent{})
	NewEventDispatcher(publisher, nil).Dispatch(context.Background(), "op", nil)

	assert.Equal(t, 0, publisher.calls)
}

// ===========================
// Test Group 3: 分頁
// ===========================

// Test 8: 預設值、上限與頁數
func TestPage_NormalizeAndInfo(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, MaxPageSize, Page{Page: 2, Limit: 1000}.Normalize().Limit)
	assert.Equal(t, 40, Page{Page: 3, Limit: 20}.Offset())

	info := NewPageInfo(Page{Page: 2, Limit: 10}, 21)
	assert.Equal(t, 3, info.TotalPages)
	assert.EqualValues(t, 21, info.Total)
}

// ===========================
// Mock 實作
// ===========================

type mockIdempotencyRepository struct {
	records       map[string]shared.IdempotencyRecord
	FindCallCount int
}

func newMockIdempotencyRepository() *mockIdempotencyRepository {
	return &mockIdempotencyRepository{records: make(map[string]shared.IdempotencyRecord)}
}

func (m *mockIdempotencyRepository) Find(_ shared.TransactionContext, key string) (*shared.IdempotencyRecord, error) {
	m.FindCallCount++
	record, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *mockIdempotencyRepository) Save(_ shared.TransactionContext, record shared.IdempotencyRecord) error {
	if _, ok := m.records[record.Key]; ok {
		return shared.ErrDuplicateRequest.WithContext("key", record.Key)
	}
	m.records[record.Key] = record
	return nil
}

type mockPublisher struct {
	err   error
	calls int
}

func (m *mockPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

func (m *mockPublisher) PublishBatch(_ context.Context, _ []shared.DomainEvent) error {
	m.calls++
	return m.err
}
