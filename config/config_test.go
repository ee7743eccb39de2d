package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsramaa/trading-journal/risk"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, risk.DefaultMaxDailyLossPercent, cfg.Profile.MaxDailyLossPercent)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing user", func(c *Config) { c.Account.UserID = "" }, "account.user_id is required"},
		{"negative balance", func(c *Config) { c.Account.Balance = -1 }, "account.balance must not be negative"},
		{"bad exposure", func(c *Config) { c.Profile.MaxCorrelatedExposure = 2 }, "max_correlated_exposure"},
		{"unknown style", func(c *Config) { c.Style = "position" }, "unknown trading style"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver must be"},
		{"redis without addr", func(c *Config) {
			c.Store.Driver = "redis"
			c.Store.Redis.Addr = ""
		}, "store.redis.addr"},
		{"missing db path", func(c *Config) { c.Store.DBPath = "" }, "store.db_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Account.UserID = "trader-7"
			cfg.Profile.MaxConcurrentPositions = 5
			cfg.Store.Driver = "redis"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  user_id: alice\n  balance: 2500\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Account.UserID)
	assert.Equal(t, 2500.0, cfg.Account.Balance)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, risk.DefaultMaxConcurrentPositions, cfg.Profile.MaxConcurrentPositions)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: mysql\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvUserID:      "bob",
		EnvBalance:     "1234.5",
		EnvStoreDriver: "redis",
		EnvRedisAddr:   "cache:6379",
		EnvRedisDB:     "2",
		EnvStyle:       "swing",
		EnvLogLevel:    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "bob", cfg.Account.UserID)
	assert.Equal(t, 1234.5, cfg.Account.Balance)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "swing", cfg.Style)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())

	env[EnvBalance] = "lots"
	assert.Error(t, Default().ApplyEnv(lookup))
}

func TestProfileConfigRiskProfile(t *testing.T) {
	p := Default().Profile
	p.RiskPerTradePercent = 1

	rp := p.RiskProfile("u1")
	assert.Equal(t, "u1", rp.UserID)
	assert.True(t, rp.IsActive)
	assert.Equal(t, 1.0, rp.RiskPerTradePercent)
	assert.Equal(t, risk.DefaultMaxPositionSizePercent, rp.MaxPositionSizePercent)
}
