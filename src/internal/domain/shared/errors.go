package shared

import "fmt"

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型（用於 HTTP 狀態碼映射與日誌檢索）
type ErrorCode string

// 跨 bounded context 共用的錯誤代碼
const (
	ErrCodeInvalidAmount          ErrorCode = "AMOUNT_INVALID"
	ErrCodeInvalidUserID          ErrorCode = "USER_ID_INVALID"
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
	ErrCodeDuplicateRequest       ErrorCode = "DUPLICATE_REQUEST"
	ErrCodeRepositoryError        ErrorCode = "REPOSITORY_ERROR"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 設計原則：
// 1. Code 是錯誤的身份（errors.Is 只比較 Code）
// 2. Context 附帶調試信息，不影響比較
// 3. 不可變：WithContext 返回新實例，預定義錯誤永遠不被修改
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// NewDomainError 建立預定義錯誤（供各 bounded context 宣告 var Err...）
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文信息（key-value 成對傳入）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 接口（按 Code 判斷）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ===========================
// 預定義錯誤
// ===========================

var (
	// ErrInvalidAmount 金額或數量必須為正數
	ErrInvalidAmount = NewDomainError(ErrCodeInvalidAmount, "金額必須大於 0 且最多兩位小數")

	// ErrInvalidUserID 無效的用戶 ID
	ErrInvalidUserID = NewDomainError(ErrCodeInvalidUserID, "無效的用戶 ID")

	// ErrConcurrentModification 樂觀鎖衝突（version 不符）
	ErrConcurrentModification = NewDomainError(ErrCodeConcurrentModification, "資料已被其他請求修改，請重試")

	// ErrDuplicateRequest 相同冪等鍵的請求正在處理或已處理
	ErrDuplicateRequest = NewDomainError(ErrCodeDuplicateRequest, "重複的請求")

	// ErrRepositoryError 倉儲操作失敗（通用）
	ErrRepositoryError = NewDomainError(ErrCodeRepositoryError, "倉儲操作失敗")
)
