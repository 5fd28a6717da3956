package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/prompts"
	"github.com/hance08/kbank/internal/utils"
	"github.com/hance08/kbank/internal/validation"
	"github.com/shopspring/decimal"
)

func lookupAccount(ctx context.Context, svc *service.Service, number string) (*model.Account, error) {
	number = strings.TrimSpace(number)
	if err := validation.ValidateAccountNumber(number); err != nil {
		return nil, &service.ValidationError{Field: "account number", Err: err}
	}

	acc, found, err := svc.Account.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("account '%s': %w", number, service.ErrAccountNotFound)
	}
	return acc, nil
}

// amountArg reads the amount from args[i], or asks for it when missing
func amountArg(args []string, i int, message string) (decimal.Decimal, error) {
	var input string
	if len(args) > i {
		input = args[i]
	} else {
		var err error
		input, err = prompts.PromptTransactionAmount(message)
		if err != nil {
			return decimal.Zero, err
		}
	}

	amount, err := utils.ParseAmount(input)
	if err != nil {
		return decimal.Zero, &service.ValidationError{Field: "amount", Err: err}
	}
	return amount, nil
}

// accountArg reads the account number from args[i], or asks for a registered one
func accountArg(ctx context.Context, svc *service.Service, args []string, i int, message string) (*model.Account, error) {
	if len(args) > i {
		return lookupAccount(ctx, svc, args[i])
	}

	validator := validation.NewAccountValidator(svc.Account)
	input, err := prompts.PromptAccountNumber(message, validator.ValidateExistingAccount(ctx))
	if err != nil {
		return nil, err
	}
	return lookupAccount(ctx, svc, input)
}
