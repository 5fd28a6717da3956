package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("fills unset keys with defaults", func(tt *testing.T) {
		as := assert.New(tt)
		path := writeConfig(tt, "storage:\n  driver: file\n  path: /tmp/kbank/data.jsonl\n")

		cfg, err := Load(path)
		require.NoError(tt, err)
		as.Equal(constants.DriverFile, cfg.Storage.Driver)
		as.Equal("/tmp/kbank/data.jsonl", cfg.Storage.Path)
		as.Equal(18, cfg.Bank.MinimumAge)
		as.Equal(10, cfg.Bank.AccountNumberLength)
		as.Equal(int64(64), cfg.Server.MaxInflight)
		as.Equal(path, cfg.ConfigPath)
	})

	t.Run("environment overrides the file", func(tt *testing.T) {
		path := writeConfig(tt, "bank:\n  minimum_age: 18\n")
		tt.Setenv("KBANK_BANK_MINIMUM_AGE", "21")
		tt.Setenv("KBANK_LOGGING_LEVEL", "debug")

		cfg, err := Load(path)
		require.NoError(tt, err)
		assert.Equal(tt, 21, cfg.Bank.MinimumAge)
		assert.Equal(tt, "debug", cfg.Logging.Level)
	})

	t.Run("rejects invalid settings", func(tt *testing.T) {
		path := writeConfig(tt, "storage:\n  driver: mongo\n")
		_, err := Load(path)
		assert.ErrorContains(tt, err, "storage.driver")
	})

	t.Run("fails on a missing explicit file", func(tt *testing.T) {
		_, err := Load(filepath.Join(tt.TempDir(), "nope.yaml"))
		assert.Error(tt, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"short account numbers", func(c *Config) { c.Bank.AccountNumberLength = 4 }, false},
		{"long account numbers", func(c *Config) { c.Bank.AccountNumberLength = 19 }, false},
		{"negative minimum age", func(c *Config) { c.Bank.MinimumAge = -1 }, false},
		{"node id out of range", func(c *Config) { c.Bank.NodeID = 1024 }, false},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"no inflight budget", func(c *Config) { c.Server.MaxInflight = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			cfg := NewDefault()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(tt, err)
			} else {
				assert.Error(tt, err)
			}
		})
	}
}

func TestStoragePath(t *testing.T) {
	cfg := NewDefault()
	cfg.Storage.Path = "/data/bank.db"
	path, err := cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/data/bank.db", path)

	cfg.Storage.Path = ""
	cfg.Storage.Driver = constants.DriverFile
	path, err = cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "kbank.log.jsonl", filepath.Base(path))
}

func TestLoadDurations(t *testing.T) {
	path := writeConfig(t, "server:\n  acquire_timeout: 500ms\n  breaker_timeout: 1m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.AcquireTimeout)
	assert.Equal(t, time.Minute, cfg.Server.BreakerTimeout)
	assert.Equal(t, uint32(5), cfg.Server.BreakerFailures)
}
