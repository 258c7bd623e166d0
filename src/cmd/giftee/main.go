package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/logging"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/persistence"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/server"
)

func main() {
	conf := config.New(config.Path())
	logger, err := logging.New(conf)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cliApp := &cli.App{
		Name:  "giftee",
		Usage: "gift card and loyalty ledger",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					app, cleanup, err := InitServer(conf, logger)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx.Context, app)
				},
			},
			{
				Name:  "worker",
				Usage: "run scheduled jobs (redemption expiry)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "once", Usage: "run every job once and exit"},
				},
				Action: func(ctx *cli.Context) error {
					s, cleanup, err := InitWorker(conf, logger)
					if err != nil {
						return err
					}
					defer cleanup()
					if ctx.Bool("once") {
						return s.RunOnce(ctx.Context)
					}

					sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return s.Run(sigCtx)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: func(ctx *cli.Context) error {
					db, err := persistence.NewDB(conf, logger)
					if err != nil {
						return err
					}
					if err := persistence.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("migrate finished", zap.Int("tables", len(persistence.Models())))
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Fatal("giftee exited", zap.Error(err))
	}
}
