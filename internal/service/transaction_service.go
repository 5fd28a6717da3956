package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	repo        store.Repository
	config      *config.Config
	log         *zerolog.Logger
	node        *snowflake.Node
	locks       *accountLocks
	now         func() time.Time
	transferIDs func() string
}

func NewTransactionService(repo store.Repository, cfg *config.Config, log *zerolog.Logger, opts ...Option) (*TransactionService, error) {
	node, err := snowflake.NewNode(cfg.Bank.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction id node: %w", err)
	}

	o := buildOptions(opts)
	return &TransactionService{
		repo:        repo,
		config:      cfg,
		log:         log,
		node:        node,
		locks:       newAccountLocks(),
		now:         o.now,
		transferIDs: o.transferIDs,
	}, nil
}

// Deposit credits amount to an existing account
func (ts *TransactionService) Deposit(ctx context.Context, number string, amount decimal.Decimal) (*model.Transaction, error) {
	number = strings.TrimSpace(number)
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	unlock := ts.locks.Lock(number)
	defer unlock()

	txn := ts.newTransaction(number, amount, model.KindDeposit, "")
	err = ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		if err := requireAccount(ctx, repo, number); err != nil {
			return err
		}
		return repo.SaveTransactions(ctx, txn)
	})
	if err != nil {
		return nil, ts.wrap("deposit", err)
	}

	ts.log.Info().
		Int64("id", txn.ID).
		Str("account", number).
		Str("amount", amount.StringFixed(constants.AmountScale)).
		Msg("deposit recorded")

	return &txn, nil
}

// Withdraw debits amount from an existing account. It fails with an
// InsufficientFundsError when the balance is lower than amount.
func (ts *TransactionService) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (*model.Transaction, error) {
	number = strings.TrimSpace(number)
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	unlock := ts.locks.Lock(number)
	defer unlock()

	txn := ts.newTransaction(number, amount.Neg(), model.KindWithdrawal, "")
	err = ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		if err := requireAccount(ctx, repo, number); err != nil {
			return err
		}
		if err := requireFunds(ctx, repo, number, amount); err != nil {
			return err
		}
		return repo.SaveTransactions(ctx, txn)
	})
	if err != nil {
		return nil, ts.wrap("withdrawal", err)
	}

	ts.log.Info().
		Int64("id", txn.ID).
		Str("account", number).
		Str("amount", amount.StringFixed(constants.AmountScale)).
		Msg("withdrawal recorded")

	return &txn, nil
}

// Transfer moves amount between two accounts. Both legs share a transfer id
// and are written in one store transaction, so either both exist or neither.
func (ts *TransactionService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (*TransferReceipt, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == to {
		return nil, ErrSameAccount
	}

	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	unlock := ts.locks.Lock(from, to)
	defer unlock()

	transferID := ts.transferIDs()
	debit := ts.newTransaction(from, amount.Neg(), model.KindTransferOut, transferID)
	credit := ts.newTransaction(to, amount, model.KindTransferIn, transferID)

	err = ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		if err := requireAccount(ctx, repo, from); err != nil {
			return err
		}
		if err := requireAccount(ctx, repo, to); err != nil {
			return err
		}
		if err := requireFunds(ctx, repo, from, amount); err != nil {
			return err
		}
		return repo.SaveTransactions(ctx, debit, credit)
	})
	if err != nil {
		return nil, ts.wrap("transfer", err)
	}

	ts.log.Info().
		Str("transfer_id", transferID).
		Str("from", from).
		Str("to", to).
		Str("amount", amount.StringFixed(constants.AmountScale)).
		Msg("transfer recorded")

	return &TransferReceipt{
		TransferID: transferID,
		From:       from,
		To:         to,
		Amount:     amount,
		Debit:      &debit,
		Credit:     &credit,
	}, nil
}

// GetBalance returns the sum of the account's transactions. An account with
// no transactions, or no account at all, has a balance of zero.
func (ts *TransactionService) GetBalance(ctx context.Context, number string) (decimal.Decimal, error) {
	return balanceOf(ctx, ts.repo, strings.TrimSpace(number))
}

// GetHistory returns the account's transactions, oldest first
func (ts *TransactionService) GetHistory(ctx context.Context, number string) ([]*model.Transaction, error) {
	txns, err := ts.repo.GetTransactions(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txns, nil
}

// GetTransfer returns both legs of a recorded transfer
func (ts *TransactionService) GetTransfer(ctx context.Context, transferID string) (*TransferReceipt, error) {
	legs, err := ts.repo.GetTransfer(ctx, strings.TrimSpace(transferID))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("transfer '%s': %w", transferID, ErrTransferNotFound)
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}

	receipt := &TransferReceipt{TransferID: transferID}
	for _, leg := range legs {
		switch leg.Kind {
		case model.KindTransferOut:
			receipt.Debit = leg
			receipt.From = leg.AccountNumber
			receipt.Amount = leg.Amount.Neg()
		case model.KindTransferIn:
			receipt.Credit = leg
			receipt.To = leg.AccountNumber
		}
	}
	if receipt.Debit == nil || receipt.Credit == nil {
		return nil, fmt.Errorf("transfer '%s' has %d legs: %w", transferID, len(legs), store.ErrCorruptRecord)
	}

	return receipt, nil
}

// GetStatement builds the account's history with a running balance
func (ts *TransactionService) GetStatement(ctx context.Context, number string) (*Statement, error) {
	number = strings.TrimSpace(number)

	acc, err := ts.repo.GetAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("account '%s': %w", number, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	txns, err := ts.GetHistory(ctx, number)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{
		Account:     acc,
		Lines:       make([]StatementLine, 0, len(txns)),
		Credits:     decimal.Zero,
		Debits:      decimal.Zero,
		Closing:     decimal.Zero,
		GeneratedAt: ts.now(),
	}
	for _, t := range txns {
		stmt.Closing = stmt.Closing.Add(t.Amount)
		if t.Amount.IsNegative() {
			stmt.Debits = stmt.Debits.Add(t.Amount.Neg())
		} else {
			stmt.Credits = stmt.Credits.Add(t.Amount)
		}
		stmt.Lines = append(stmt.Lines, StatementLine{Transaction: t, Balance: stmt.Closing})
	}

	return stmt, nil
}

func (ts *TransactionService) newTransaction(number string, amount decimal.Decimal, kind model.TransactionKind, transferID string) model.Transaction {
	return model.Transaction{
		ID:            ts.node.Generate().Int64(),
		AccountNumber: number,
		Amount:        amount,
		Kind:          kind,
		TransferID:    transferID,
		CreatedAt:     ts.now().UTC(),
	}
}

// wrap passes business outcomes through unchanged and annotates faults
func (ts *TransactionService) wrap(op string, err error) error {
	if IsBusinessError(err) {
		ts.log.Info().Err(err).Str("op", op).Msg("transaction rejected")
		return err
	}
	ts.log.Error().Err(err).Str("op", op).Msg("transaction failed")
	return fmt.Errorf("failed to record %s: %w", op, err)
}

func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(constants.AmountScale)
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func requireAccount(ctx context.Context, repo store.AccountRepository, number string) error {
	exists, err := repo.AccountNumberExists(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if !exists {
		return fmt.Errorf("account '%s': %w", number, ErrAccountNotFound)
	}
	return nil
}

func requireFunds(ctx context.Context, repo store.TransactionRepository, number string, amount decimal.Decimal) error {
	balance, err := balanceOf(ctx, repo, number)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return newInsufficientFunds(number, balance, amount)
	}
	return nil
}

func balanceOf(ctx context.Context, repo store.TransactionRepository, number string) (decimal.Decimal, error) {
	txns, err := repo.GetTransactions(ctx, number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return model.SumAmounts(txns), nil
}
