package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hance08/kbank/internal/config"
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/store"
	"github.com/hance08/kbank/internal/validation"
	"github.com/rs/zerolog"
)

type AccountService struct {
	repo     store.Repository
	config   *config.Config
	log      *zerolog.Logger
	now      func() time.Time
	generate NumberGenerator
}

func NewAccountService(repo store.Repository, cfg *config.Config, log *zerolog.Logger, opts ...Option) *AccountService {
	o := buildOptions(opts)
	return &AccountService{
		repo:     repo,
		config:   cfg,
		log:      log,
		now:      o.now,
		generate: o.numbers,
	}
}

// CreateAccount registers a new account holder. The identity number must not
// be in use and the holder must have reached the configured minimum age.
// The duplicate check, number allocation and insert run in one store
// transaction.
func (as *AccountService) CreateAccount(ctx context.Context, name, idNumber string, dob time.Time) (*model.Account, error) {
	name = strings.TrimSpace(name)
	idNumber = validation.NormalizeIDNumber(idNumber)

	if err := validation.ValidateHolderName(name); err != nil {
		return nil, &ValidationError{Field: "name", Err: err}
	}
	if err := validation.ValidateIDNumber(idNumber); err != nil {
		return nil, &ValidationError{Field: "id number", Err: err}
	}

	now := as.now()
	if dob.After(now) {
		return nil, &ValidationError{Field: "date of birth", Err: fmt.Errorf("date of birth can't be in the future")}
	}

	acc := model.Account{
		HolderName:  name,
		IDNumber:    idNumber,
		DateOfBirth: dob,
		CreatedAt:   now.UTC(),
	}

	err := as.repo.ExecTx(ctx, func(repo store.Repository) error {
		inUse, err := idNumberInUse(ctx, repo, idNumber)
		if err != nil {
			return err
		}
		if inUse {
			return &DuplicateIdentityError{IDNumber: idNumber}
		}

		if age := AgeOn(dob, now); age < as.config.Bank.MinimumAge {
			return fmt.Errorf("%w: age %d, minimum %d", ErrUnderage, age, as.config.Bank.MinimumAge)
		}

		number, err := as.allocateNumber(ctx, repo)
		if err != nil {
			return err
		}
		acc.AccountNumber = number

		return repo.SaveAccount(ctx, acc)
	})
	if err != nil {
		if IsBusinessError(err) {
			as.log.Info().Err(err).Str("id_number", idNumber).Msg("account registration rejected")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	as.log.Info().
		Str("account", acc.AccountNumber).
		Str("id_number", idNumber).
		Msg("account created")

	return &acc, nil
}

func (as *AccountService) allocateNumber(ctx context.Context, repo store.Repository) (string, error) {
	length := as.config.Bank.AccountNumberLength
	if length == 0 {
		length = constants.DefaultAccountNumberLength
	}

	for attempt := 1; attempt <= constants.AccountNumberAttempts; attempt++ {
		number, err := as.generate(length)
		if err != nil {
			return "", err
		}
		if len(number) != length {
			return "", fmt.Errorf("generated account number %q is not %d digits", number, length)
		}

		exists, err := repo.AccountNumberExists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check account number: %w", err)
		}
		if !exists {
			return number, nil
		}

		as.log.Debug().Str("account", number).Int("attempt", attempt).Msg("account number collision")
	}

	return "", fmt.Errorf("%w after %d attempts", ErrAccountNumberUnavailable, constants.AccountNumberAttempts)
}

// GetAccount looks up an account by number. A missing account is reported by
// found=false, not by an error.
func (as *AccountService) GetAccount(ctx context.Context, number string) (*model.Account, bool, error) {
	acc, err := as.repo.GetAccountByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return acc, true, nil
}

func (as *AccountService) GetAccounts(ctx context.Context) ([]*model.Account, error) {
	return as.repo.GetAllAccounts(ctx)
}

func (as *AccountService) IDNumberInUse(ctx context.Context, idNumber string) (bool, error) {
	return idNumberInUse(ctx, as.repo, validation.NormalizeIDNumber(idNumber))
}

func (as *AccountService) AccountExists(ctx context.Context, number string) (bool, error) {
	return as.repo.AccountNumberExists(ctx, strings.TrimSpace(number))
}

func idNumberInUse(ctx context.Context, repo store.AccountRepository, idNumber string) (bool, error) {
	_, err := repo.GetAccountByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up id number: %w", err)
	}
	return true, nil
}
