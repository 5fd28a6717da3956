package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/errhandler"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui"
	"github.com/hance08/kbank/internal/ui/prompts"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/hance08/kbank/internal/utils"
	"github.com/hance08/kbank/internal/validation"
	"github.com/pterm/pterm"
)

// menuRunner drives the numbered console menu
type menuRunner struct {
	svc *service.Service
}

func (r *menuRunner) Run(ctx context.Context) error {
	ui.PrintL1Title("kbank")

	for {
		choice, err := prompts.PromptMainMenu()
		if err != nil {
			return err
		}

		switch choice {
		case prompts.MenuRegister:
			err = r.register(ctx)
		case prompts.MenuTransact:
			err = r.transact(ctx)
		case prompts.MenuExit:
			pterm.Info.Println("Goodbye")
			return nil
		}

		if err != nil {
			if errhandler.IsCancelled(err) || !service.IsBusinessError(err) {
				return err
			}
			pterm.Warning.Println(errhandler.Capitalize(err.Error()))
		}
		ui.Separator()
	}
}

func (r *menuRunner) register(ctx context.Context) error {
	ui.PrintL2Title("Register an account")

	name, err := prompts.PromptHolderName(validation.ValidateHolderName)
	if err != nil {
		return err
	}
	idNumber, err := prompts.PromptIDNumber(validation.ValidateIDNumber)
	if err != nil {
		return err
	}
	dobInput, err := prompts.PromptDateOfBirth(validation.ValidateDateOfBirth)
	if err != nil {
		return err
	}
	dob, err := validation.ParseDateOfBirth(dobInput, time.Now())
	if err != nil {
		return err
	}

	acc, err := r.svc.Account.CreateAccount(ctx, name, idNumber, dob)
	var dup *service.DuplicateIdentityError
	if errors.As(err, &dup) {
		pterm.Warning.Println(errhandler.Capitalize(err.Error()))
		instead, err := prompts.PromptTransactInstead()
		if err != nil || !instead {
			return err
		}
		return r.transact(ctx)
	}
	if err != nil {
		return err
	}

	return views.RenderAccountCreated(acc)
}

// transact runs transactions on one account until the user stops
func (r *menuRunner) transact(ctx context.Context) error {
	validator := validation.NewAccountValidator(r.svc.Account)

	input, err := prompts.PromptAccountNumber("Account number:", validator.ValidateExistingAccount(ctx))
	if err != nil {
		return err
	}

	acc, err := r.lookup(ctx, strings.TrimSpace(input))
	if err != nil {
		return err
	}
	ui.PrintL2Title("%s (%s)", acc.HolderName, acc.AccountNumber)

	for {
		action, err := prompts.PromptTransactionAction()
		if err != nil {
			return err
		}

		if err := r.runAction(ctx, acc, action, validator); err != nil {
			if errhandler.IsCancelled(err) || !service.IsBusinessError(err) {
				return err
			}
			pterm.Warning.Println(errhandler.Capitalize(err.Error()))
		}

		again, err := prompts.PromptContinue()
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *menuRunner) runAction(ctx context.Context, acc *model.Account, action string, validator *validation.AccountValidator) error {
	ts := r.svc.Transaction

	switch action {
	case constants.ActionBalance:
		balance, err := ts.GetBalance(ctx, acc.AccountNumber)
		if err != nil {
			return err
		}
		views.RenderBalance(acc.AccountNumber, balance)

	case constants.ActionDeposit:
		input, err := prompts.PromptTransactionAmount("Amount to deposit:")
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(input)
		if err != nil {
			return err
		}
		if _, err := ts.Deposit(ctx, acc.AccountNumber, amount); err != nil {
			return err
		}
		pterm.Success.Printfln("Deposited %s", utils.FormatAmount(amount))
		return r.showBalance(ctx, acc.AccountNumber)

	case constants.ActionWithdraw:
		input, err := prompts.PromptTransactionAmount("Amount to withdraw:")
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(input)
		if err != nil {
			return err
		}
		if _, err := ts.Withdraw(ctx, acc.AccountNumber, amount); err != nil {
			return err
		}
		pterm.Success.Printfln("Withdrew %s", utils.FormatAmount(amount))
		return r.showBalance(ctx, acc.AccountNumber)

	case constants.ActionTransfer:
		toInput, err := prompts.PromptAccountNumber("Destination account number:", validator.ValidateExistingAccount(ctx))
		if err != nil {
			return err
		}
		to, err := r.lookup(ctx, strings.TrimSpace(toInput))
		if err != nil {
			return err
		}
		input, err := prompts.PromptTransactionAmount("Amount to transfer:")
		if err != nil {
			return err
		}
		amount, err := utils.ParseAmount(input)
		if err != nil {
			return err
		}

		if err := views.RenderTransferPreview(acc, to, amount); err != nil {
			return err
		}
		ok, err := prompts.PromptConfirm("Proceed with the transfer?", true)
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Transfer cancelled")
			return nil
		}

		receipt, err := ts.Transfer(ctx, acc.AccountNumber, to.AccountNumber, amount)
		if err != nil {
			return err
		}
		if err := views.RenderTransferReceipt(receipt); err != nil {
			return err
		}
		return r.showBalance(ctx, acc.AccountNumber)

	default:
		return fmt.Errorf("unknown action '%s'", action)
	}

	return nil
}

func (r *menuRunner) lookup(ctx context.Context, number string) (*model.Account, error) {
	acc, found, err := r.svc.Account.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("account '%s': %w", number, service.ErrAccountNotFound)
	}
	return acc, nil
}

func (r *menuRunner) showBalance(ctx context.Context, number string) error {
	balance, err := r.svc.Transaction.GetBalance(ctx, number)
	if err != nil {
		return err
	}
	views.RenderBalance(number, balance)
	return nil
}
