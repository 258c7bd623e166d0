package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

func TestSameLocalDay_UsesFirstArgumentLocation(t *testing.T) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	// 曼谷 23:30 與 00:30（UTC 16:30 與 17:30）
	lateNight := time.Date(2024, 3, 1, 23, 30, 0, 0, bangkok)
	nextMorningUTC := time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)

	assert.False(t, shared.SameLocalDay(lateNight, nextMorningUTC))
	assert.True(t, shared.SameLocalDay(lateNight, lateNight.Add(-23*time.Hour)))
}

func TestFixedClock_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &shared.FixedClock{Time: start}

	clock.Advance(36 * time.Hour)

	assert.Equal(t, start.Add(36*time.Hour), clock.Now())
	assert.Equal(t, "2024-01-03", shared.LocalDay(clock.Now()))
}

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	clock := shared.NewSystemClock(loc)

	assert.Equal(t, loc, clock.Now().Location())
	assert.Equal(t, time.Local, shared.NewSystemClock(nil).Location)
}

func TestEventRecorder_PullEventsClears(t *testing.T) {
	var rec shared.EventRecorder
	assert.NotNil(t, rec.PullEvents())

	rec.Record(testEvent{shared.NewBaseEvent("test.happened", "agg-1", shared.NewUserID(), time.Now())})
	events := rec.PullEvents()

	require.Len(t, events, 1)
	assert.Equal(t, "test.happened", events[0].EventType())
	assert.NotEmpty(t, events[0].EventID())
	assert.Empty(t, rec.PullEvents())
}

type testEvent struct {
	shared.BaseEvent
}

func (testEvent) Payload() map[string]interface{} { return map[string]interface{}{} }
