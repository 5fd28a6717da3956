package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/store"
	"github.com/rs/zerolog"
)

type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Config      *config.Config
}

type options struct {
	now         func() time.Time
	numbers     NumberGenerator
	transferIDs func() string
}

type Option func(*options)

// WithClock replaces time.Now, used for age checks and timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithNumberGenerator replaces the random account number source
func WithNumberGenerator(g NumberGenerator) Option {
	return func(o *options) {
		o.numbers = g
	}
}

// WithTransferIDs replaces the transfer id source
func WithTransferIDs(next func() string) Option {
	return func(o *options) {
		o.transferIDs = next
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:         time.Now,
		numbers:     RandomAccountNumber,
		transferIDs: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewService(repo store.Repository, cfg *config.Config, log *zerolog.Logger, opts ...Option) (*Service, error) {
	txSvc, err := NewTransactionService(repo, cfg, log, opts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		Account:     NewAccountService(repo, cfg, log, opts...),
		Transaction: txSvc,
		Config:      cfg,
	}, nil
}
