package transaction

import (
	"strings"

	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewTransferShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-show <transfer-id>",
		Short: "Show both legs of a transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := svc.Transaction.GetTransfer(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			return views.RenderTransferReceipt(receipt)
		},
	}
}
