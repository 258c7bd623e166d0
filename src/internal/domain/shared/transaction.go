package shared

import "context"

// TransactionContext 事務上下文介面
//
// 行為約定（可選事務參與）：
// - ctx != nil: 在調用者的事務中執行
// - ctx == nil: auto-commit 模式，只用於獨立的讀操作
//
// 寫操作（Save / Update）必須在 TransactionManager.InTransaction 中執行，
// 所有帳本變更（餘額、積分、庫存、流水）在同一事務中提交或回滾。
//
//	txManager.InTransaction(ctx, func(tx TransactionContext) error {
//	    account, _ := accounts.FindByUserID(tx, userID)
//	    entry, _ := account.EarnPoints(...)
//	    if err := accounts.Update(tx, account); err != nil {
//	        return err
//	    }
//	    return history.Append(tx, entry)
//	})
//
// 這是標記介面：Infrastructure Layer 實作具體封裝（GORM），
// Domain / Application Layer 不依賴任何資料庫類型。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回 error 或 panic 時回滾；返回 nil 時提交。
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}
