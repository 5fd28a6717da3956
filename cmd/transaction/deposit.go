package transaction

import (
	"context"

	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type chargeFunc func(ctx context.Context, number string, amount decimal.Decimal) (*model.Transaction, error)

type chargeRunner struct {
	svc    *service.Service
	charge chargeFunc
	verb   string
}

func NewDepositCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit [account-number] [amount]",
		Short: "Deposit money into an account",
		Long: `Deposit a positive amount into an account. Missing arguments are asked for.

Example: kbank transaction deposit 4821930571 150.50`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &chargeRunner{
				svc:    svc,
				charge: svc.Transaction.Deposit,
				verb:   "deposit",
			}
			return runner.Run(cmd.Context(), args)
		},
	}
}

func NewWithdrawCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [account-number] [amount]",
		Short: "Withdraw money from an account",
		Long: `Withdraw a positive amount from an account. The withdrawal is refused
when the balance does not cover it.

Example: kbank transaction withdraw 4821930571 40`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &chargeRunner{
				svc:    svc,
				charge: svc.Transaction.Withdraw,
				verb:   "withdraw",
			}
			return runner.Run(cmd.Context(), args)
		},
	}
}

func (r *chargeRunner) Run(ctx context.Context, args []string) error {
	acc, err := accountArg(ctx, r.svc, args, 0, "Account number:")
	if err != nil {
		return err
	}

	amount, err := amountArg(args, 1, "Amount to "+r.verb+":")
	if err != nil {
		return err
	}

	txn, err := r.charge(ctx, acc.AccountNumber, amount)
	if err != nil {
		return err
	}

	balance, err := r.svc.Transaction.GetBalance(ctx, acc.AccountNumber)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s of %s recorded (transaction %d)",
		txn.Kind.Label(), utils.FormatAmount(txn.Amount.Abs()), txn.ID)
	views.RenderBalance(acc.AccountNumber, balance)
	return nil
}
