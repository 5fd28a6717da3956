package transaction

import (
	"context"
	"fmt"

	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/prompts"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
)

type transferFlags struct {
	Yes bool
}

type transferRunner struct {
	svc   *service.Service
	flags *transferFlags
}

func NewTransferCmd(svc *service.Service) *cobra.Command {
	flags := &transferFlags{}

	cmd := &cobra.Command{
		Use:   "transfer [from] [to] [amount]",
		Short: "Move money between two accounts",
		Long: `Move a positive amount from one account to another. Both legs are
recorded together or not at all. The transfer is confirmed before it runs
unless --yes is given.

Example: kbank transaction transfer 4821930571 7730015284 60 --yes`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &transferRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "skip the confirmation")

	return cmd
}

func (r *transferRunner) Run(ctx context.Context, args []string) error {
	from, err := accountArg(ctx, r.svc, args, 0, "Source account number:")
	if err != nil {
		return err
	}
	to, err := accountArg(ctx, r.svc, args, 1, "Destination account number:")
	if err != nil {
		return err
	}
	amount, err := amountArg(args, 2, "Amount to transfer:")
	if err != nil {
		return err
	}

	if !r.flags.Yes {
		if err := views.RenderTransferPreview(from, to, amount); err != nil {
			return err
		}
		ok, err := prompts.PromptConfirm("Proceed with the transfer?", true)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("transfer cancelled")
		}
	}

	receipt, err := r.svc.Transaction.Transfer(ctx, from.AccountNumber, to.AccountNumber, amount)
	if err != nil {
		return err
	}

	return views.RenderTransferReceipt(receipt)
}
