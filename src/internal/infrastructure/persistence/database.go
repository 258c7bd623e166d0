package persistence

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
)

// NewDB 依配置建立資料庫連線（sqlite | mysql）
func NewDB(conf *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Database.Driver {
	case "mysql":
		dialector = mysql.Open(conf.Database.DSN)
	case "sqlite":
		dialector = sqlite.Open(conf.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(conf.Database.LogLevel)),
	})
	if err != nil {
		log.Error("failed to connect database", zap.String("driver", conf.Database.Driver), zap.Error(err))
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if conf.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.Database.MaxOpenConns)
	}
	if conf.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.Database.MaxIdleConns)
	}
	if conf.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(conf.Database.ConnMaxLifetime)
	}

	log.Info("connect database success", zap.String("driver", conf.Database.Driver))
	return db, nil
}

// Models 所有需要遷移的 GORM 模型
func Models() []interface{} {
	return []interface{}{
		&AccountModel{},
		&PointHistoryModel{},
		&CardModel{},
		&CardTransactionModel{},
		&RewardModel{},
		&RedemptionModel{},
		&IdempotencyKeyModel{},
		&NotificationModel{},
	}
}

// AutoMigrate 建立/更新資料表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
