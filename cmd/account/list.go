/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package account

import (
	"context"
	"fmt"

	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// balanceWorkers bounds the concurrent balance lookups
const balanceWorkers = 8

type ListCommandRunner struct {
	svc *service.Service
}

func NewListCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts with their balances",
		Long:  `List all registered accounts in the order they were opened, with their current balances.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				svc: svc,
			}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *ListCommandRunner) Run(ctx context.Context) error {
	accounts, err := r.svc.Account.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	items, err := r.listItems(ctx, accounts)
	if err != nil {
		return err
	}

	return views.NewAccountListView().Render(items)
}

func (r *ListCommandRunner) listItems(ctx context.Context, accounts []*model.Account) ([]views.AccountListItem, error) {
	items := make([]views.AccountListItem, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceWorkers)

	for i, acc := range accounts {
		g.Go(func() error {
			balance, err := r.svc.Transaction.GetBalance(gctx, acc.AccountNumber)
			if err != nil {
				return fmt.Errorf("failed to get balance of %s: %w", acc.AccountNumber, err)
			}
			items[i] = views.AccountListItem{
				AccountNumber: acc.AccountNumber,
				HolderName:    acc.HolderName,
				IDNumber:      acc.IDNumber,
				Balance:       balance,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
