package config

import (
	"time"

	"github.com/hance08/kbank/internal/constants"
)

type Config struct {
	Storage    StorageConfig `mapstructure:"storage"`
	Bank       BankConfig    `mapstructure:"bank"`
	Logging    LoggingConfig `mapstructure:"logging"`
	Server     ServerConfig  `mapstructure:"server"`
	ConfigPath string        `mapstructure:"-"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type BankConfig struct {
	MinimumAge          int   `mapstructure:"minimum_age"`
	AccountNumberLength int   `mapstructure:"account_number_length"`
	NodeID              int64 `mapstructure:"node_id"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	MaxInflight    int64         `mapstructure:"max_inflight"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`

	// BreakerFailures consecutive store faults open the circuit for BreakerTimeout
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

func NewDefault() *Config {
	return &Config{
		Storage: StorageConfig{Driver: constants.DriverSQLite, Path: ""},
		Bank: BankConfig{
			MinimumAge:          constants.DefaultMinimumAge,
			AccountNumberLength: constants.DefaultAccountNumberLength,
			NodeID:              1,
		},
		Logging: LoggingConfig{Level: "info", File: ""},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxInflight:     64,
			AcquireTimeout:  2 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
	}
}

// Defaults returns the default values keyed the way viper expects them
func Defaults() map[string]any {
	d := NewDefault()
	return map[string]any{
		"storage.driver":             d.Storage.Driver,
		"storage.path":               d.Storage.Path,
		"bank.minimum_age":           d.Bank.MinimumAge,
		"bank.account_number_length": d.Bank.AccountNumberLength,
		"bank.node_id":               d.Bank.NodeID,
		"logging.level":              d.Logging.Level,
		"logging.file":               d.Logging.File,
		"server.addr":                d.Server.Addr,
		"server.max_inflight":        d.Server.MaxInflight,
		"server.acquire_timeout":     d.Server.AcquireTimeout.String(),
		"server.breaker_failures":    d.Server.BreakerFailures,
		"server.breaker_timeout":     d.Server.BreakerTimeout.String(),
	}
}
