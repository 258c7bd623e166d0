package points

import (
	"errors"
	"fmt"

	"github.com/giftee-platform/giftee/src/internal/application/common"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/domain/tier"
)

// ===========================
// GetBalance
// ===========================

// BalanceResult 積分餘額
type BalanceResult struct {
	AccountResult
	Multiplier string `json:"multiplier"`
}

// GetBalanceUseCase 查詢積分餘額 Use Case
type GetBalanceUseCase struct {
	accounts points.AccountRepository
}

// NewGetBalanceUseCase 創建 Use Case 實例
func NewGetBalanceUseCase(accounts points.AccountRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{accounts: accounts}
}

// Execute 查詢餘額
//
// 錯誤處理：
// - shared.ErrInvalidUserID: UserID 格式無效
// - ErrAccountNotFound: 帳戶不存在
func (uc *GetBalanceUseCase) Execute(userID string) (*BalanceResult, error) {
	return uc.ExecuteWithContext(nil, userID)
}

// ExecuteWithContext 在事務上下文中查詢（獨立查詢時傳入 nil）
func (uc *GetBalanceUseCase) ExecuteWithContext(tx shared.TransactionContext, userID string) (*BalanceResult, error) {
	account, err := findAccount(tx, uc.accounts, userID)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		AccountResult: *toAccountResult(account),
		Multiplier:    tier.Multiplier(account.Tier()).String(),
	}, nil
}

// ===========================
// GetTierProgress
// ===========================

// TierProgressResult 等級與升級進度
type TierProgressResult struct {
	CurrentTier     string   `json:"current_tier"`
	NextTier        string   `json:"next_tier,omitempty"` // 最高等級時為空
	LifetimePoints  int      `json:"lifetime_points"`
	PointsToNext    int      `json:"points_to_next"`
	PercentComplete int      `json:"percent_complete"`
	Multiplier      string   `json:"multiplier"`
	Benefits        []string `json:"benefits"`
}

// GetTierProgressUseCase 查詢升級進度
type GetTierProgressUseCase struct {
	accounts points.AccountRepository
}

// NewGetTierProgressUseCase 創建 Use Case 實例
func NewGetTierProgressUseCase(accounts points.AccountRepository) *GetTierProgressUseCase {
	return &GetTierProgressUseCase{accounts: accounts}
}

// Execute 查詢升級進度（等級由累積積分推導）
func (uc *GetTierProgressUseCase) Execute(userID string) (*TierProgressResult, error) {
	account, err := findAccount(nil, uc.accounts, userID)
	if err != nil {
		return nil, err
	}

	progress := tier.ProgressFor(account.LifetimePoints().Value())
	def, _ := tier.Lookup(progress.Current)
	return &TierProgressResult{
		CurrentTier:     progress.Current.String(),
		NextTier:        progress.Next.String(),
		LifetimePoints:  progress.LifetimePoints,
		PointsToNext:    progress.PointsToNext,
		PercentComplete: progress.PercentComplete,
		Multiplier:      def.Multiplier.String(),
		Benefits:        append([]string(nil), def.Benefits...),
	}, nil
}

// TierInfo 等級表中的一列
type TierInfo struct {
	Tier       string   `json:"tier"`
	MinPoints  int      `json:"min_points"`
	Multiplier string   `json:"multiplier"`
	Benefits   []string `json:"benefits,omitempty"`
}

// TierTable 等級表（公開端點）
func TierTable() []TierInfo {
	defs := tier.Table()
	out := make([]TierInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, TierInfo{
			Tier:       d.Tier.String(),
			MinPoints:  d.MinPoints,
			Multiplier: d.Multiplier.String(),
			Benefits:   d.Benefits,
		})
	}
	return out
}

// ===========================
// ListHistory
// ===========================

// ListHistoryQuery 積分流水查詢
type ListHistoryQuery struct {
	UserID string
	Type   string // 空字串表示全部
	Page   common.Page
}

// ListHistoryResult 積分流水分頁結果
type ListHistoryResult struct {
	Items    []HistoryEntryResult `json:"items"`
	PageInfo common.PageInfo      `json:"page_info"`
}

// ListHistoryUseCase 查詢積分流水
type ListHistoryUseCase struct {
	history points.HistoryRepository
}

// NewListHistoryUseCase 創建 Use Case 實例
func NewListHistoryUseCase(history points.HistoryRepository) *ListHistoryUseCase {
	return &ListHistoryUseCase{history: history}
}

// Execute 按時間倒序分頁查詢
func (uc *ListHistoryUseCase) Execute(query ListHistoryQuery) (*ListHistoryResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	var historyType points.HistoryType
	if query.Type != "" {
		if historyType, err = points.ParseHistoryType(query.Type); err != nil {
			return nil, err
		}
	}

	page := query.Page.Normalize()
	entries, total, err := uc.history.List(nil, points.HistoryFilter{
		UserID: userID,
		Type:   historyType,
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list point history: %w", err)
	}

	items := make([]HistoryEntryResult, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toHistoryEntryResult(entry))
	}
	return &ListHistoryResult{Items: items, PageInfo: common.NewPageInfo(page, total)}, nil
}

// ===========================
// Reconcile
// ===========================

// ReconcileResult 對帳結果
type ReconcileResult struct {
	UserID      string `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	HistorySum  int    `json:"history_sum"`
	Difference  int    `json:"difference"`
	Consistent  bool   `json:"consistent"`
}

// ReconcileUseCase 對帳：Σ 流水 points == 帳戶 totalPoints
type ReconcileUseCase struct {
	accounts points.AccountRepository
	history  points.HistoryRepository
}

// NewReconcileUseCase 創建 Use Case 實例
func NewReconcileUseCase(accounts points.AccountRepository, history points.HistoryRepository) *ReconcileUseCase {
	return &ReconcileUseCase{accounts: accounts, history: history}
}

// Execute 執行對帳（只讀）
func (uc *ReconcileUseCase) Execute(userID string) (*ReconcileResult, error) {
	account, err := findAccount(nil, uc.accounts, userID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.history.SumByUser(nil, account.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to sum point history: %w", err)
	}

	total := account.TotalPoints().Value()
	return &ReconcileResult{
		UserID:      account.UserID().String(),
		TotalPoints: total,
		HistorySum:  sum,
		Difference:  total - sum,
		Consistent:  total == sum,
	}, nil
}

// ===========================
// PreviewAward
// ===========================

// PreviewAwardResult 消費金額可獲得的積分（不入帳）
type PreviewAwardResult struct {
	Amount      string `json:"amount"`
	Points      int    `json:"points"`
	BasePoints  int    `json:"base_points"`
	BonusPoints int    `json:"bonus_points"`
	Multiplier  string `json:"multiplier"`
	Tier        string `json:"tier"`
}

// PreviewAwardUseCase 以會員目前等級試算積分
type PreviewAwardUseCase struct {
	accounts   points.AccountRepository
	calculator *points.PointsCalculationService
}

// NewPreviewAwardUseCase 創建 Use Case 實例
func NewPreviewAwardUseCase(accounts points.AccountRepository, calculator *points.PointsCalculationService) *PreviewAwardUseCase {
	return &PreviewAwardUseCase{accounts: accounts, calculator: calculator}
}

// Execute 試算；尚未開戶的用戶以 bronze 計算
func (uc *PreviewAwardUseCase) Execute(userID string, amount shared.Money) (*PreviewAwardResult, error) {
	current := tier.Bronze
	account, err := findAccount(nil, uc.accounts, userID)
	switch {
	case err == nil:
		current = account.Tier()
	case !errors.Is(err, points.ErrAccountNotFound):
		return nil, err
	}

	award := uc.calculator.CalculateAward(amount, current)
	return &PreviewAwardResult{
		Amount:      amount.String(),
		Points:      award.Total(),
		BasePoints:  award.Base,
		BonusPoints: award.Bonus,
		Multiplier:  award.Multiplier.String(),
		Tier:        string(award.Tier),
	}, nil
}
