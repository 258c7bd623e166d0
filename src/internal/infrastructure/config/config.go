package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // 容器映像可能沒有 zoneinfo

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config 應用配置
type Config struct {
	App       *App       `json:"app" yaml:"app"`
	Server    *Server    `json:"server" yaml:"server"`
	Database  *Database  `json:"database" yaml:"database"`
	Redis     *Redis     `json:"redis" yaml:"redis"`
	Jwt       *Jwt       `json:"jwt" yaml:"jwt"`
	Loyalty   *Loyalty   `json:"loyalty" yaml:"loyalty"`
	Scheduler *Scheduler `json:"scheduler" yaml:"scheduler"`
	Log       *Log       `json:"log" yaml:"log"`
}

// App 應用基本信息
type App struct {
	Name   string `json:"name" yaml:"name"`
	Env    string `json:"env" yaml:"env"`
	Debug  bool   `json:"debug" yaml:"debug"`
	NodeID int64  `json:"node_id" yaml:"node_id"` // snowflake 節點號（0-1023）
}

// Server HTTP 服務
type Server struct {
	Http            int           `json:"http" yaml:"http"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Database 資料庫連線
type Database struct {
	Driver          string        `json:"driver" yaml:"driver"` // sqlite | mysql
	DSN             string        `json:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	LogLevel        string        `json:"log_level" yaml:"log_level"` // silent | error | warn | info
	AutoMigrate     bool          `json:"auto_migrate" yaml:"auto_migrate"`
}

// Redis 通知發布用
type Redis struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Addr     string `json:"addr" yaml:"addr"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database int    `json:"database" yaml:"database"`
	Channel  string `json:"channel" yaml:"channel"`
}

// Jwt 只做驗證（簽發由登入服務負責）
type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	Issuer string `json:"issuer" yaml:"issuer"`
}

// Loyalty 積分與禮品卡政策
type Loyalty struct {
	PointsPerUnit          string `json:"points_per_unit" yaml:"points_per_unit"`
	DailyLoadLimit         string `json:"daily_load_limit" yaml:"daily_load_limit"`
	RedemptionValidityDays int    `json:"redemption_validity_days" yaml:"redemption_validity_days"`
	Timezone               string `json:"timezone" yaml:"timezone"`
	CodeSalt               string `json:"code_salt" yaml:"code_salt"`
}

// Scheduler 背景排程
type Scheduler struct {
	ExpirySpec string `json:"expiry_spec" yaml:"expiry_spec"` // cron 表達式
	BatchSize  int    `json:"batch_size" yaml:"batch_size"`
}

// Log 日誌
type Log struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"` // json | console
}

// ===========================
// 載入
// ===========================

// Load 讀取 .env 與 YAML 配置檔，環境變數覆蓋敏感欄位
//
// 覆蓋順序：YAML < 環境變數（DATABASE_DSN, JWT_SECRET, REDIS_ADDR, HTTP_PORT）
func Load(filename string) (*Config, error) {
	// .env 不存在不是錯誤（正式環境直接注入環境變數）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	return Parse(content)
}

// Parse 解析 YAML 內容並套用預設值與環境變數
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	conf.applyDefaults()
	if err := conf.applyEnv(); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// New 讀取配置，失敗時 panic（僅供 main 使用）
func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return conf
}

// Path 依 APP_ENV 決定配置檔路徑（預設 dev）
func Path() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{}
	}
	if c.App.Name == "" {
		c.App.Name = "giftee"
	}
	if c.App.NodeID == 0 {
		c.App.NodeID = 1
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.Database == nil {
		c.Database = &Database{}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "giftee.db"
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}

	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "giftee:notifications"
	}

	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}

	if c.Loyalty == nil {
		c.Loyalty = &Loyalty{}
	}
	if c.Loyalty.PointsPerUnit == "" {
		c.Loyalty.PointsPerUnit = "0.1"
	}
	if c.Loyalty.DailyLoadLimit == "" {
		c.Loyalty.DailyLoadLimit = "50000"
	}
	if c.Loyalty.RedemptionValidityDays == 0 {
		c.Loyalty.RedemptionValidityDays = 30
	}
	if c.Loyalty.Timezone == "" {
		c.Loyalty.Timezone = "Asia/Bangkok"
	}
	if c.Loyalty.CodeSalt == "" {
		c.Loyalty.CodeSalt = "giftee"
	}

	if c.Scheduler == nil {
		c.Scheduler = &Scheduler{}
	}
	if c.Scheduler.ExpirySpec == "" {
		c.Scheduler.ExpirySpec = "@every 1h"
	}
	if c.Scheduler.BatchSize == 0 {
		c.Scheduler.BatchSize = 100
	}

	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Jwt.Secret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT must be a number: %w", err)
		}
		c.Server.Http = port
	}
	return nil
}

// Validate 檢查必要欄位
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.App.NodeID < 0 || c.App.NodeID > 1023 {
		return fmt.Errorf("app.node_id must be between 0 and 1023, got %d", c.App.NodeID)
	}
	if _, err := c.Loyalty.PointsPerUnitDecimal(); err != nil {
		return err
	}
	if _, err := c.Loyalty.DailyLoadLimitDecimal(); err != nil {
		return err
	}
	if _, err := c.Loyalty.Location(); err != nil {
		return err
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}
	return nil
}

// Debug 調試模式
func (c *Config) Debug() bool {
	return c.App.Debug
}

// ===========================
// Loyalty 輔助方法
// ===========================

// PointsPerUnitDecimal 每單位金額積分
func (l *Loyalty) PointsPerUnitDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(l.PointsPerUnit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loyalty.points_per_unit: %w", err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("loyalty.points_per_unit must be positive, got %s", l.PointsPerUnit)
	}
	return d, nil
}

// DailyLoadLimitDecimal 新卡預設每日儲值上限
func (l *Loyalty) DailyLoadLimitDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(l.DailyLoadLimit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loyalty.daily_load_limit: %w", err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("loyalty.daily_load_limit must be positive, got %s", l.DailyLoadLimit)
	}
	return d, nil
}

// RedemptionValidity 兌換碼有效期
func (l *Loyalty) RedemptionValidity() time.Duration {
	return time.Duration(l.RedemptionValidityDays) * 24 * time.Hour
}

// Location 每日額度重置使用的時區
func (l *Loyalty) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loyalty.timezone: %w", err)
	}
	return loc, nil
}
