package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsramaa/trading-journal/risk"
	"github.com/itsramaa/trading-journal/style"
)

// Config is the riskctl configuration.
type Config struct {
	Log     LogConfig     `json:"log" yaml:"log"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Account AccountConfig `json:"account" yaml:"account"`
	Profile ProfileConfig `json:"profile" yaml:"profile"`
	Style   string        `json:"style" yaml:"style"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// StoreConfig selects where snapshots and events live. Profiles and trades
// are always kept in SQLite.
type StoreConfig struct {
	Driver string      `json:"driver" yaml:"driver"` // "sqlite" or "redis"
	DBPath string      `json:"db_path" yaml:"db_path"`
	Redis  RedisConfig `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// AccountConfig identifies the journal owner and the balance used to open
// their first day.
type AccountConfig struct {
	UserID  string  `json:"user_id" yaml:"user_id"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// ProfileConfig is the risk profile created on onboarding.
type ProfileConfig struct {
	RiskPerTradePercent      float64 `json:"risk_per_trade_percent" yaml:"risk_per_trade_percent"`
	MaxDailyLossPercent      float64 `json:"max_daily_loss_percent" yaml:"max_daily_loss_percent"`
	MaxWeeklyDrawdownPercent float64 `json:"max_weekly_drawdown_percent" yaml:"max_weekly_drawdown_percent"`
	MaxPositionSizePercent   float64 `json:"max_position_size_percent" yaml:"max_position_size_percent"`
	MaxCorrelatedExposure    float64 `json:"max_correlated_exposure" yaml:"max_correlated_exposure"`
	MaxConcurrentPositions   int     `json:"max_concurrent_positions" yaml:"max_concurrent_positions"`
}

// MetricsConfig controls the Prometheus textfile written after each command.
// An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// RiskProfile returns the configured limits as an active profile for userID.
func (p ProfileConfig) RiskProfile(userID string) risk.RiskProfile {
	rp := risk.DefaultProfile(userID)
	rp.RiskPerTradePercent = p.RiskPerTradePercent
	rp.MaxDailyLossPercent = p.MaxDailyLossPercent
	rp.MaxWeeklyDrawdownPercent = p.MaxWeeklyDrawdownPercent
	rp.MaxPositionSizePercent = p.MaxPositionSizePercent
	rp.MaxCorrelatedExposure = p.MaxCorrelatedExposure
	rp.MaxConcurrentPositions = p.MaxConcurrentPositions
	return rp
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Env variables read by ApplyEnv.
const (
	EnvUserID        = "RISKCTL_USER"
	EnvBalance       = "RISKCTL_BALANCE"
	EnvLogLevel      = "RISKCTL_LOG_LEVEL"
	EnvStoreDriver   = "RISKCTL_STORE_DRIVER"
	EnvDBPath        = "RISKCTL_DB_PATH"
	EnvRedisAddr     = "RISKCTL_REDIS_ADDR"
	EnvRedisPassword = "RISKCTL_REDIS_PASSWORD"
	EnvRedisDB       = "RISKCTL_REDIS_DB"
	EnvStyle         = "RISKCTL_STYLE"
)

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvUserID, &c.Account.UserID)
	str(EnvLogLevel, &c.Log.Level)
	str(EnvStoreDriver, &c.Store.Driver)
	str(EnvDBPath, &c.Store.DBPath)
	str(EnvRedisAddr, &c.Store.Redis.Addr)
	str(EnvRedisPassword, &c.Store.Redis.Password)
	str(EnvStyle, &c.Style)

	if v, ok := lookup(EnvBalance); ok && v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBalance, err)
		}
		c.Account.Balance = b
	}
	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		c.Store.Redis.DB = db
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.UserID == "" {
		return fmt.Errorf("account.user_id is required")
	}
	if c.Account.Balance < 0 {
		return fmt.Errorf("account.balance must not be negative")
	}
	if err := c.Profile.RiskProfile(c.Account.UserID).Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if c.Style != "" {
		if _, err := style.Parse(c.Style); err != nil {
			return err
		}
	}
	switch c.Store.Driver {
	case "sqlite":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr required for redis driver")
		}
	default:
		return fmt.Errorf("store.driver must be 'sqlite' or 'redis'")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	return nil
}

// Default returns a configuration with the onboarding risk profile.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DBPath: "./journal.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tj:",
			},
		},
		Account: AccountConfig{
			UserID:  "default",
			Balance: 10000,
		},
		Profile: ProfileConfig{
			RiskPerTradePercent:      risk.DefaultRiskPerTradePercent,
			MaxDailyLossPercent:      risk.DefaultMaxDailyLossPercent,
			MaxWeeklyDrawdownPercent: risk.DefaultMaxWeeklyDrawdownPercent,
			MaxPositionSizePercent:   risk.DefaultMaxPositionSizePercent,
			MaxCorrelatedExposure:    risk.DefaultMaxCorrelatedExposure,
			MaxConcurrentPositions:   risk.DefaultMaxConcurrentPositions,
		},
		Style: string(style.ShortTrade),
	}
}
