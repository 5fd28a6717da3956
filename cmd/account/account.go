package account

import (
	"github.com/hance08/kbank/internal/service"
	"github.com/spf13/cobra"
)

func NewAccountCmd(svc *service.Service) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Register accounts and look them up",
		Long:  `Register a new account, show one account or list all accounts with their balances.`,
	}

	accountCmd.AddCommand(NewCreateCmd(svc))
	accountCmd.AddCommand(NewShowCmd(svc))
	accountCmd.AddCommand(NewListCmd(svc))

	return accountCmd
}
