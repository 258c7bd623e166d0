package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	cardapp "github.com/giftee-platform/giftee/src/internal/application/card"
	"github.com/giftee-platform/giftee/src/internal/application/common"
	rewardapp "github.com/giftee-platform/giftee/src/internal/application/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/metrics"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/persistence"
)

// ===========================
// 配置衍生的 Provider
// ===========================

func provideDB(conf *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := persistence.NewDB(conf, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if conf.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return db, cleanup, nil
}

func provideClock(conf *config.Config) (shared.Clock, error) {
	loc, err := conf.Loyalty.Location()
	if err != nil {
		return nil, err
	}
	return shared.NewSystemClock(loc), nil
}

func provideCalculator(conf *config.Config) (*points.PointsCalculationService, error) {
	perUnit, err := conf.Loyalty.PointsPerUnitDecimal()
	if err != nil {
		return nil, err
	}
	return points.NewPointsCalculationService(perUnit)
}

func provideCardPolicy(conf *config.Config) (cardapp.Policy, error) {
	limit, err := conf.Loyalty.DailyLoadLimitDecimal()
	if err != nil {
		return cardapp.Policy{}, err
	}
	money, err := shared.NewMoney(limit.Round(shared.MoneyScale))
	if err != nil {
		return cardapp.Policy{}, err
	}
	return cardapp.Policy{DefaultDailyLoadLimit: money}, nil
}

func provideRewardPolicy(conf *config.Config) rewardapp.Policy {
	return rewardapp.Policy{RedemptionValidity: conf.Loyalty.RedemptionValidity()}
}

// providePublisher 事件依序送往：日誌、站內收件匣、Redis（啟用時）、Prometheus
func providePublisher(conf *config.Config, logger *zap.Logger, inbox notification.Inbox) (shared.EventPublisher, func(), error) {
	sinks := []shared.EventPublisher{
		notification.NewLogPublisher(logger),
		notification.NewInboxPublisher(inbox),
	}
	cleanup := func() {}
	if conf.Redis.Enabled {
		client, err := notification.NewRedisClient(conf, logger)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, notification.NewRedisPublisher(client, conf.Redis.Channel))
		cleanup = func() { _ = client.Close() }
	}
	sinks = append(sinks, metrics.NewEventSink())
	return notification.NewMultiPublisher(sinks...), cleanup, nil
}

func provideDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *common.EventDispatcher {
	return common.NewEventDispatcher(publisher, logger)
}

func provideExpireRedemptions(
	conf *config.Config,
	redemptions reward.RedemptionRepository,
	txManager shared.TransactionManager,
	dispatcher *common.EventDispatcher,
	clock shared.Clock,
	logger *zap.Logger,
) *rewardapp.ExpireRedemptionsUseCase {
	return rewardapp.NewExpireRedemptionsUseCase(redemptions, txManager, dispatcher, clock, logger, conf.Scheduler.BatchSize)
}
