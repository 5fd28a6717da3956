package validation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/utils"
)

// AccountStore defines the lookups the validator needs.
// This prevents circular dependency with service package
type AccountStore interface {
	IDNumberInUse(ctx context.Context, idNumber string) (bool, error)
	AccountExists(ctx context.Context, accountNumber string) (bool, error)
}

// AccountValidator handles validation that needs stored data
type AccountValidator struct {
	store AccountStore
}

// NewAccountValidator creates a new account validator
func NewAccountValidator(store AccountStore) *AccountValidator {
	return &AccountValidator{store: store}
}

// ValidateHolderName validates an account holder name
func ValidateHolderName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("name can't be empty")
	}

	if len([]rune(name)) > constants.MaxNameLen {
		return fmt.Errorf("name too long (max %d characters)", constants.MaxNameLen)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name can't contain control characters")
		}
	}

	return nil
}

// NormalizeIDNumber trims and upper-cases an identity number so that the same
// document typed twice compares equal.
func NormalizeIDNumber(idNumber string) string {
	return strings.ToUpper(strings.TrimSpace(idNumber))
}

// ValidateIDNumber validates the format of an identity number (e.g. 63-1234567X42)
func ValidateIDNumber(idNumber string) error {
	idNumber = NormalizeIDNumber(idNumber)

	if idNumber == "" {
		return fmt.Errorf("id number can't be empty")
	}

	if len(idNumber) > constants.MaxIDNumberLen {
		return fmt.Errorf("id number too long (max %d characters)", constants.MaxIDNumberLen)
	}

	for _, r := range idNumber {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '-' && r != '/' {
			return fmt.Errorf("id number may only contain letters, digits, '-' and '/'")
		}
	}

	return nil
}

// ParseDateOfBirth parses a YYYY-MM-DD date and rejects dates after now
func ParseDateOfBirth(value string, now time.Time) (time.Time, error) {
	dob, err := time.Parse(constants.DateFormat, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date of birth, use YYYY-MM-DD")
	}

	if dob.After(now) {
		return time.Time{}, fmt.Errorf("date of birth can't be in the future")
	}

	return dob, nil
}

// ValidateDateOfBirth is the prompt-friendly form of ParseDateOfBirth
func ValidateDateOfBirth(value string) error {
	_, err := ParseDateOfBirth(value, time.Now())
	return err
}

// ValidateAccountNumber checks the shape of an account number
func ValidateAccountNumber(number string) error {
	number = strings.TrimSpace(number)

	if number == "" {
		return fmt.Errorf("account number can't be empty")
	}

	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("account number must contain only digits")
		}
	}

	return nil
}

// ValidateAmount validates a positive money amount
func ValidateAmount(value string) error {
	amount, err := utils.ParseAmount(value)
	if err != nil {
		return err
	}

	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}

	return nil
}

// ValidateIDNumberAvailable returns a validator that checks both format and
// that no account is registered with the id number yet
func (v *AccountValidator) ValidateIDNumberAvailable(ctx context.Context) func(string) error {
	return func(idNumber string) error {
		if err := ValidateIDNumber(idNumber); err != nil {
			return err
		}

		inUse, err := v.store.IDNumberInUse(ctx, NormalizeIDNumber(idNumber))
		if err != nil {
			return fmt.Errorf("failed to check id number: %w", err)
		}
		if inUse {
			return fmt.Errorf("id number already exists")
		}

		return nil
	}
}

// ValidateExistingAccount returns a validator that accepts only registered account numbers
func (v *AccountValidator) ValidateExistingAccount(ctx context.Context) func(string) error {
	return func(number string) error {
		if err := ValidateAccountNumber(number); err != nil {
			return err
		}

		exists, err := v.store.AccountExists(ctx, strings.TrimSpace(number))
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return fmt.Errorf("invalid account number")
		}

		return nil
	}
}
