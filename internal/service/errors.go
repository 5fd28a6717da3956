package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Business outcomes. These are expected results of a request and are
// reported to the user as such; anything else returned by the services is a
// fault of the store or the environment.
var (
	ErrUnderage         = errors.New("account holder is under the minimum age")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrAccountNotFound  = errors.New("account not found")
	ErrSameAccount      = errors.New("source and destination account are the same")
	ErrTransferNotFound = errors.New("transfer not found")
)

var ErrAccountNumberUnavailable = errors.New("could not allocate a unique account number")

type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type DuplicateIdentityError struct {
	IDNumber string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("id number '%s' already exists", e.IDNumber)
}

type InsufficientFundsError struct {
	AccountNumber string
	Balance       decimal.Decimal
	Requested     decimal.Decimal
	Shortfall     decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: short by %s",
		e.AccountNumber, e.Shortfall.StringFixed(2))
}

func newInsufficientFunds(number string, balance, requested decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{
		AccountNumber: number,
		Balance:       balance,
		Requested:     requested,
		Shortfall:     requested.Sub(balance),
	}
}

// IsBusinessError reports whether err is an expected outcome of a request
// rather than a fault
func IsBusinessError(err error) bool {
	if err == nil {
		return false
	}

	var dup *DuplicateIdentityError
	var funds *InsufficientFundsError
	var invalid *ValidationError

	switch {
	case errors.As(err, &dup), errors.As(err, &funds), errors.As(err, &invalid):
		return true
	case errors.Is(err, ErrUnderage),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrTransferNotFound):
		return true
	}
	return false
}
