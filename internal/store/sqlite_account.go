package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	sqlite "github.com/mattn/go-sqlite3"
)

const accountColumns = "account_number, holder_name, id_number, date_of_birth, created_at"

func (s *Store) SaveAccount(ctx context.Context, acc model.Account) error {
	stmt, err := s.db.PrepareContext(ctx, `
        INSERT INTO accounts (account_number, holder_name, id_number, date_of_birth, created_at)
        VALUES (?, ?, ?, ?, ?);
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL : %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	_, err = stmt.ExecContext(ctx,
		acc.AccountNumber,
		acc.HolderName,
		acc.IDNumber,
		acc.DateOfBirth.Format(constants.DateFormat),
		acc.CreatedAt.Unix(),
	)
	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintUnique) ||
				errors.Is(sqliteErr.ExtendedCode, sqlite.ErrConstraintPrimaryKey) {
				return fmt.Errorf("failed to create account '%s': %w", acc.AccountNumber, ErrAccountExists)
			}
		}
		return fmt.Errorf("failed to executing SQL insertion : %w", err)
	}

	return nil
}

func (s *Store) GetAllAccounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+accountColumns+`
        FROM accounts
        ORDER BY created_at, account_number
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return s.scanAccounts(rows)
}

func (s *Store) GetAccountByNumber(ctx context.Context, number string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE account_number = ?", number)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account '%s': %w", number, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account '%s' : %w", number, err)
	}
	return acc, nil
}

func (s *Store) GetAccountByIDNumber(ctx context.Context, idNumber string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id_number = ?", idNumber)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with id number '%s': %w", idNumber, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account by id number : %w", err)
	}
	return acc, nil
}

func (s *Store) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = ?)", number)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	acc := &model.Account{}
	var dob string
	var createdAt int64

	if err := row.Scan(&acc.AccountNumber, &acc.HolderName, &acc.IDNumber, &dob, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(constants.DateFormat, dob)
	if err != nil {
		return nil, fmt.Errorf("account '%s' has invalid date of birth %q: %w", acc.AccountNumber, dob, ErrCorruptRecord)
	}
	acc.DateOfBirth = parsed
	acc.CreatedAt = time.Unix(createdAt, 0)

	return acc, nil
}

func (s *Store) scanAccounts(rows *sql.Rows) ([]*model.Account, error) {
	accounts := []*model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}
