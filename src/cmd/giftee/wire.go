//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	cardapp "github.com/giftee-platform/giftee/src/internal/application/card"
	"github.com/giftee-platform/giftee/src/internal/application/common"
	pointsapp "github.com/giftee-platform/giftee/src/internal/application/points"
	rewardapp "github.com/giftee-platform/giftee/src/internal/application/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/card"
	"github.com/giftee-platform/giftee/src/internal/domain/points"
	"github.com/giftee-platform/giftee/src/internal/domain/reward"
	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/idgen"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/notification"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/persistence"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/scheduler"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/handler"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/server"
)

var persistenceSet = wire.NewSet(
	provideDB,
	persistence.NewAccountRepository,
	persistence.NewHistoryRepository,
	persistence.NewCardRepository,
	persistence.NewTransactionRepository,
	persistence.NewRewardRepository,
	persistence.NewRedemptionRepository,
	persistence.NewIdempotencyRepository,
	persistence.NewNotificationRepository,
	persistence.NewGORMTransactionManager,
	wire.Bind(new(points.AccountRepository), new(*persistence.GORMAccountRepository)),
	wire.Bind(new(points.HistoryRepository), new(*persistence.GORMHistoryRepository)),
	wire.Bind(new(card.CardRepository), new(*persistence.GORMCardRepository)),
	wire.Bind(new(card.TransactionRepository), new(*persistence.GORMTransactionRepository)),
	wire.Bind(new(reward.RewardRepository), new(*persistence.GORMRewardRepository)),
	wire.Bind(new(reward.RedemptionRepository), new(*persistence.GORMRedemptionRepository)),
	wire.Bind(new(shared.IdempotencyRepository), new(*persistence.GORMIdempotencyRepository)),
	wire.Bind(new(notification.Inbox), new(*persistence.GORMNotificationRepository)),
	wire.Bind(new(shared.TransactionManager), new(*persistence.GORMTransactionManager)),
)

var coreSet = wire.NewSet(
	persistenceSet,
	provideClock,
	providePublisher,
	provideDispatcher,
	idgen.NewFromConfig,
	wire.Bind(new(shared.CodeGenerator), new(*idgen.Generator)),
	common.NewIdempotencyGuard,
)

var useCaseSet = wire.NewSet(
	provideCalculator,
	pointsapp.NewCreateAccountUseCase,
	pointsapp.NewDeactivateAccountUseCase,
	pointsapp.NewGetBalanceUseCase,
	pointsapp.NewGetTierProgressUseCase,
	pointsapp.NewListHistoryUseCase,
	pointsapp.NewAwardPointsUseCase,
	pointsapp.NewPreviewAwardUseCase,
	pointsapp.NewAwardBonusUseCase,
	pointsapp.NewAdjustPointsUseCase,
	pointsapp.NewDeductPointsUseCase,
	pointsapp.NewRefundPointsUseCase,
	pointsapp.NewReconcileUseCase,

	provideCardPolicy,
	cardapp.NewIssueCardUseCase,
	cardapp.NewLoadCardUseCase,
	cardapp.NewDeductCardUseCase,
	cardapp.NewTransferUseCase,
	cardapp.NewVoidTransactionUseCase,
	cardapp.NewRefundUseCase,
	cardapp.NewCardStatusUseCase,
	cardapp.NewCardQueryUseCase,

	provideRewardPolicy,
	rewardapp.NewRewardCatalogUseCase,
	rewardapp.NewRedeemUseCase,
	rewardapp.NewCheckRedeemabilityUseCase,
	rewardapp.NewRedemptionLifecycleUseCase,
	provideExpireRedemptions,
	rewardapp.NewRedemptionQueryUseCase,
)

// InitServer 組裝 HTTP 服務
func InitServer(conf *config.Config, logger *zap.Logger) (*server.AppProvider, func(), error) {
	wire.Build(
		coreSet,
		useCaseSet,
		handler.NewValidator,
		wire.Struct(new(handler.Loyalty), "*"),
		wire.Struct(new(handler.Card), "*"),
		wire.Struct(new(handler.Reward), "*"),
		wire.Struct(new(handler.Notification), "*"),
		wire.Struct(new(server.Handlers), "*"),
		server.NewAuthenticator,
		server.NewGinEngine,
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil, nil
}

// InitWorker 組裝背景排程
func InitWorker(conf *config.Config, logger *zap.Logger) (*scheduler.Scheduler, func(), error) {
	wire.Build(
		coreSet,
		provideExpireRedemptions,
		wire.Bind(new(scheduler.Expirer), new(*rewardapp.ExpireRedemptionsUseCase)),
		scheduler.New,
	)
	return nil, nil, nil
}
