package card

import "github.com/giftee-platform/giftee/src/internal/domain/shared"

// CardMarker 是 CardID 的標記類型
type CardMarker struct{}

// CardID 禮品卡 ID
type CardID = shared.EntityID[CardMarker]

// NewCardID 生成新的禮品卡 ID
func NewCardID() CardID {
	return shared.NewEntityID[CardMarker]()
}

// CardIDFromString 從字串解析禮品卡 ID
func CardIDFromString(s string) (CardID, error) {
	return shared.EntityIDFromString[CardMarker](s, ErrInvalidCardID)
}

// TransactionMarker 是 TransactionID 的標記類型
type TransactionMarker struct{}

// TransactionID 卡片交易 ID
type TransactionID = shared.EntityID[TransactionMarker]

// NewTransactionID 生成新的交易 ID
func NewTransactionID() TransactionID {
	return shared.NewEntityID[TransactionMarker]()
}

// TransactionIDFromString 從字串解析交易 ID
func TransactionIDFromString(s string) (TransactionID, error) {
	return shared.EntityIDFromString[TransactionMarker](s, ErrInvalidTransactionID)
}

// TransferMarker 是 TransferID 的標記類型
type TransferMarker struct{}

// TransferID 一次轉帳（transfer_out + transfer_in 兩筆交易共用）
type TransferID = shared.EntityID[TransferMarker]

// NewTransferID 生成新的轉帳 ID
func NewTransferID() TransferID {
	return shared.NewEntityID[TransferMarker]()
}

// TransferIDFromString 從字串解析轉帳 ID
func TransferIDFromString(s string) (TransferID, error) {
	return shared.EntityIDFromString[TransferMarker](s, ErrInvalidDetails)
}
