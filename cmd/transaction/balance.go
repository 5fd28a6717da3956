package transaction

import (
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewBalanceCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "balance [account-number]",
		Aliases: []string{"bal"},
		Short:   "Show the balance of an account",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			acc, err := accountArg(ctx, svc, args, 0, "Account number:")
			if err != nil {
				return err
			}

			balance, err := svc.Transaction.GetBalance(ctx, acc.AccountNumber)
			if err != nil {
				return err
			}

			views.RenderBalance(acc.AccountNumber, balance)
			return nil
		},
	}
}
