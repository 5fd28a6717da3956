package account

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hance08/kbank/internal/api"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/hance08/kbank/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type showFlags struct {
	Output string
}

type ShowCommandRunner struct {
	svc   *service.Service
	flags *showFlags
}

func NewShowCmd(svc *service.Service) *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show <account-number>",
		Short: "Show account details and balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd, strings.TrimSpace(args[0]))
		},
	}

	cmd.Flags().StringVarP(&flags.Output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func (r *ShowCommandRunner) Run(cmd *cobra.Command, number string) error {
	ctx := cmd.Context()

	acc, found, err := r.svc.Account.GetAccount(ctx, number)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("account '%s': %w", number, service.ErrAccountNotFound)
	}

	balance, err := r.svc.Transaction.GetBalance(ctx, number)
	if err != nil {
		return err
	}

	resp := api.NewAccountResp(acc)
	resp.Balance = utils.FormatAmount(balance)

	switch r.flags.Output {
	case "table":
		return views.RenderAccountSummary(acc, balance)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format '%s', use table, json or yaml", r.flags.Output)
	}
}
