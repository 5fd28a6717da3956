package config

import (
	"fmt"

	"github.com/hance08/kbank/internal/constants"
	"github.com/rs/zerolog"
)

// Validate reports the first setting that the application can not run with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case constants.DriverSQLite, constants.DriverFile:
	default:
		return fmt.Errorf("storage.driver must be '%s' or '%s', got '%s'",
			constants.DriverSQLite, constants.DriverFile, c.Storage.Driver)
	}

	if c.Bank.MinimumAge < 0 {
		return fmt.Errorf("bank.minimum_age can't be negative")
	}

	if c.Bank.AccountNumberLength < constants.MinAccountNumberLength ||
		c.Bank.AccountNumberLength > constants.MaxAccountNumberLength {
		return fmt.Errorf("bank.account_number_length must be between %d and %d",
			constants.MinAccountNumberLength, constants.MaxAccountNumberLength)
	}

	if c.Bank.NodeID < 0 || c.Bank.NodeID > 1023 {
		return fmt.Errorf("bank.node_id must be between 0 and 1023")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	if c.Server.MaxInflight <= 0 {
		return fmt.Errorf("server.max_inflight must be positive")
	}

	if c.Server.AcquireTimeout <= 0 {
		return fmt.Errorf("server.acquire_timeout must be positive")
	}

	if c.Server.BreakerFailures == 0 {
		return fmt.Errorf("server.breaker_failures must be positive")
	}

	return nil
}
