// Package server gin 引擎組裝與 HTTP 服務生命週期
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/handler"
	"github.com/giftee-platform/giftee/src/internal/interfaces/http/middleware"
)

// Handlers 所有 HTTP 處理器
type Handlers struct {
	Loyalty      *handler.Loyalty
	Card         *handler.Card
	Reward       *handler.Reward
	Notification *handler.Notification
}

// AppProvider serve 命令需要的全部依賴
type AppProvider struct {
	Config *config.Config
	Engine *gin.Engine
	Logger *zap.Logger
}

// NewAuthenticator 由 jwt 配置建立
func NewAuthenticator(conf *config.Config) *middleware.Authenticator {
	return middleware.NewAuthenticator(conf.Jwt.Secret, conf.Jwt.Issuer)
}

// NewGinEngine 組裝中介層與路由
func NewGinEngine(conf *config.Config, h *Handlers, auth *middleware.Authenticator, logger *zap.Logger, db *gorm.DB) *gin.Engine {
	if !conf.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger), middleware.Prometheus())

	r.GET("/healthz", healthz(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	authed := api.Group("", auth.Auth())

	h.Loyalty.RegisterRouter(api, authed)
	h.Card.RegisterRouter(authed)
	h.Reward.RegisterRouter(api, authed)
	h.Notification.RegisterRouter(authed)
	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ===========================
// 服務生命週期
// ===========================

// Run 啟動 HTTP 服務，收到 SIGINT/SIGTERM 或 ctx 結束時優雅關閉
func Run(ctx context.Context, app *AppProvider) error {
	eg, groupCtx := errgroup.WithContext(ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	defer signal.Stop(c)

	app.Logger.Info("server starting",
		zap.Int("port", app.Config.Server.Http),
		zap.String("env", app.Config.App.Env),
	)

	serv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Config.Server.Http),
		Handler:      app.Engine,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	eg.Go(func() error {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		defer func() {
			app.Logger.Info("server stopping")
			timeCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
			defer cancel()
			if err := serv.Shutdown(timeCtx); err != nil {
				app.Logger.Warn("server shutdown", zap.Error(err))
			}
		}()

		select {
		case <-groupCtx.Done():
			return groupCtx.Err()
		case <-c:
			return nil
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	app.Logger.Info("server stopped")
	return nil
}
