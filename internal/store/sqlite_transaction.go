package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/kbank/internal/model"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const transactionColumns = "id, account_number, amount, kind, COALESCE(transfer_id, ''), created_at"

// SaveTransactions inserts all rows in one SQL transaction. Inside ExecTx it
// joins the caller's transaction instead.
func (s *Store) SaveTransactions(ctx context.Context, txns ...model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	if _, ok := s.db.(*sql.DB); ok {
		return s.ExecTx(ctx, func(repo Repository) error {
			return repo.SaveTransactions(ctx, txns...)
		})
	}

	stmt, err := s.db.PrepareContext(ctx, `
        INSERT INTO transactions (id, account_number, amount, kind, transfer_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?);
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, t := range txns {
		var transferID sql.NullString
		if t.TransferID != "" {
			transferID = sql.NullString{String: t.TransferID, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.AccountNumber,
			t.Amount.String(),
			string(t.Kind),
			transferID,
			t.CreatedAt.Unix(),
		)
		if err != nil {
			var sqliteErr sqlite.Error
			if errors.As(err, &sqliteErr) && errors.Is(sqliteErr.Code, sqlite.ErrConstraint) {
				return fmt.Errorf("failed to insert transaction %d (account: %s): %w", t.ID, t.AccountNumber, ErrConstraintViolation)
			}
			return fmt.Errorf("failed to insert transaction (account: %s): %w", t.AccountNumber, err)
		}
	}

	return nil
}

// GetTransactions returns the account's transactions, oldest first
func (s *Store) GetTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE account_number = ?
        ORDER BY id
    `, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanTransactions(rows)
}

// GetTransfer returns both legs of a transfer, debit first
func (s *Store) GetTransfer(ctx context.Context, transferID string) ([]*model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+transactionColumns+`
        FROM transactions
        WHERE transfer_id = ?
        ORDER BY CAST(amount AS REAL), id
    `, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("transfer '%s': %w", transferID, ErrRecordNotFound)
	}
	return txns, nil
}

func scanTransactions(rows *sql.Rows) ([]*model.Transaction, error) {
	txns := []*model.Transaction{}
	for rows.Next() {
		t := &model.Transaction{}
		var amount, kind string
		var createdAt int64

		err := rows.Scan(&t.ID, &t.AccountNumber, &amount, &kind, &t.TransferID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d has invalid amount %q: %w", t.ID, amount, ErrCorruptRecord)
		}
		t.Kind = model.TransactionKind(kind)
		t.CreatedAt = time.Unix(createdAt, 0)

		txns = append(txns, t)
	}

	return txns, rows.Err()
}
