package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	for _, driver := range []string{constants.DriverSQLite, constants.DriverFile} {
		t.Run(driver, func(tt *testing.T) {
			as := assert.New(tt)
			reqrd := require.New(tt)
			ctx := context.Background()
			log := zerolog.Nop()

			cfg := config.NewDefault()
			cfg.Storage.Driver = driver
			cfg.Storage.Path = filepath.Join(tt.TempDir(), "data", "kbank")

			application, cleanup, err := NewApp(cfg, os.DirFS("../.."), &log)
			reqrd.NoError(err)
			defer cleanup()
			as.Equal(cfg.Storage.Path, application.StoragePath)

			acc, err := application.Service.Account.CreateAccount(ctx, "Alice", "ID-1",
				time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC))
			reqrd.NoError(err)

			_, err = application.Service.Transaction.Deposit(ctx, acc.AccountNumber, decimal.NewFromInt(10))
			reqrd.NoError(err)

			balance, err := application.Service.Transaction.GetBalance(ctx, acc.AccountNumber)
			reqrd.NoError(err)
			as.Equal("10.00", balance.StringFixed(2))
		})
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	log := zerolog.Nop()
	_, _, err := OpenStore("mongo", filepath.Join(t.TempDir(), "x"), nil, &log)
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}
