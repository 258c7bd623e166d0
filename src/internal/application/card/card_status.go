package card

import (
	"context"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
)

// SetCardStatusCommand 啟用 / 停用卡片
type SetCardStatusCommand struct {
	CardID  string
	Active  bool
	OwnerID string // 非空時要求為持卡人
}

// CardStatusUseCase 卡片狀態切換（inactive ⇄ active，冪等）
type CardStatusUseCase struct {
	cards      card.CardRepository
	txManager  shared.TransactionManager
	dispatcher *common.EventDispatcher
	clock      shared.Clock
}

// NewCardStatusUseCase 創建 Use Case 實例
func NewCardStatusUseCase(
	cards card.CardRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
) *CardStatusUseCase {
	return &CardStatusUseCase{cards: cards, txManager: txManager, dispatcher: dispatcher, clock: clock}
}

// Execute 切換狀態；狀態未變時不寫入
func (uc *CardStatusUseCase) Execute(ctx context.Context, cmd SetCardStatusCommand) (*CardResult, error) {
	var (
		result *CardResult
		events common.EventBuffer
	)
	err := uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		c, err := findCard(tx, uc.cards, cmd.CardID, cmd.OwnerID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if c.IsActive() != cmd.Active {
			if cmd.Active {
				c.Activate(now)
			} else {
				c.Deactivate(now)
			}
			if err := uc.cards.Update(tx, c); err != nil {
				return fmt.Errorf("failed to update card: %w", err)
			}
			events.Collect(c)
		}

		result = toCardResult(c, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.dispatcher.Dispatch(ctx, OperationCardStatus, events.Events())
	return result, nil
}
