package store

import (
	"context"

	"github.com/hance08/kbank/internal/model"
)

type AccountRepository interface {
	SaveAccount(ctx context.Context, acc model.Account) error
	GetAllAccounts(ctx context.Context) ([]*model.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*model.Account, error)
	GetAccountByIDNumber(ctx context.Context, idNumber string) (*model.Account, error)
	AccountNumberExists(ctx context.Context, number string) (bool, error)
}

type TransactionRepository interface {
	// SaveTransactions persists every row or none of them
	SaveTransactions(ctx context.Context, txns ...model.Transaction) error
	GetTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error)
	GetTransfer(ctx context.Context, transferID string) ([]*model.Transaction, error)
}

type Repository interface {
	AccountRepository
	TransactionRepository

	// ExecTx runs fn as one durable unit of work
	ExecTx(ctx context.Context, fn func(Repository) error) error
	Close() error
}
