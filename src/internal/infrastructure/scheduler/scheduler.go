// Package scheduler 背景排程（兌換過期批次）
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	rewardapp "github.com/giftee-platform/giftee/src/internal/application/reward"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/metrics"
)

// Expirer 兌換過期批次
type Expirer interface {
	Execute(ctx context.Context) (*rewardapp.ExpireResult, error)
}

// Scheduler cron 排程器
//
// 同一個 job 上一輪未結束時跳過本輪（SkipIfStillRunning）。
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	logger  *zap.Logger
	timeout time.Duration
}

// New 依 scheduler.expiry_spec 註冊過期 job
func New(conf *config.Config, expirer Expirer, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := zapCronLogger{logger: logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		expirer: expirer,
		logger:  logger,
		timeout: 5 * time.Minute,
	}

	if _, err := s.cron.AddFunc(conf.Scheduler.ExpirySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid scheduler.expiry_spec %q: %w", conf.Scheduler.ExpirySpec, err)
	}
	return s, nil
}

// RunOnce 立即執行一次過期批次
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	result, err := s.expirer.Execute(ctx)
	metrics.ObserveOperation(rewardapp.OperationExpireRedemptions, err)
	if err != nil {
		s.logger.Error("expire redemptions failed", zap.Error(err))
		return err
	}
	s.logger.Info("expire redemptions finished",
		zap.Int("expired", result.Expired),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Run 啟動排程並阻塞到 ctx 結束，等待執行中的 job 完成後返回
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// zapCronLogger 將 cron 內部日誌導向 zap
type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
