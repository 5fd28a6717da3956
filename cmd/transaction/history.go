package transaction

import (
	"fmt"

	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
)

type historyFlags struct {
	Limit int
}

type historyRunner struct {
	svc   *service.Service
	flags *historyFlags
}

func NewHistoryCmd(svc *service.Service) *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:     "history [account-number]",
		Aliases: []string{"list", "ls"},
		Short:   "List the transactions of an account",
		Long: `List the transactions of an account, oldest first.
With --limit only the most recent ones are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &historyRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, args)
		},
	}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0, "Show only the last N transactions (0 shows all)")

	return cmd
}

func (r *historyRunner) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if r.flags.Limit < 0 {
		return fmt.Errorf("limit can't be negative")
	}

	acc, err := accountArg(ctx, r.svc, args, 0, "Account number:")
	if err != nil {
		return err
	}

	txns, err := r.svc.Transaction.GetHistory(ctx, acc.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	if r.flags.Limit > 0 && len(txns) > r.flags.Limit {
		txns = txns[len(txns)-r.flags.Limit:]
	}

	return views.RenderHistory(acc.AccountNumber, txns)
}
