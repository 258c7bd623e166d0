package shared

import "time"

// Clock 時間來源
//
// 每日儲值額度按「當地日曆日」重置，必須可注入時區與固定時間才能測試。
type Clock interface {
	Now() time.Time
}

// SystemClock 系統時鐘，回傳指定時區的當前時間
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock 建立系統時鐘；loc 為 nil 時使用 time.Local
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc}
}

// Now 實現 Clock
func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// FixedClock 測試用固定時鐘
type FixedClock struct {
	Time time.Time
}

// Now 實現 Clock
func (c *FixedClock) Now() time.Time {
	return c.Time
}

// Advance 前進指定時間
func (c *FixedClock) Advance(d time.Duration) {
	c.Time = c.Time.Add(d)
}

// LocalDay 日曆日字串（按 t 自身的時區），用於每日額度重置比較
func LocalDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameLocalDay a 與 b 在 a 的時區下是否同一日曆日
func SameLocalDay(a, b time.Time) bool {
	return LocalDay(a) == LocalDay(b.In(a.Location()))
}
