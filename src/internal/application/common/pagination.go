package common

// 分頁預設值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 分頁參數（page 從 1 開始）
type Page struct {
	Page  int
	Limit int
}

// Normalize 補上預設值並限制上限
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset 資料庫 offset
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// PageInfo 分頁資訊
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPageInfo 依總筆數計算頁數
func NewPageInfo(p Page, total int64) PageInfo {
	n := p.Normalize()
	pages := int(total) / n.Limit
	if int(total)%n.Limit > 0 {
		pages++
	}
	return PageInfo{Page: n.Page, Limit: n.Limit, Total: total, TotalPages: pages}
}
