/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package transaction

import (
	"github.com/hance08/kbank/internal/service"
	"github.com/spf13/cobra"
)

func NewTransactionCmd(svc *service.Service) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Deposit, withdraw, transfer and look up transactions",
		Long: `Record deposits, withdrawals and transfers, and look up balances,
transaction history and transfer receipts.`,
	}

	transactionCmd.AddCommand(NewDepositCmd(svc))
	transactionCmd.AddCommand(NewWithdrawCmd(svc))
	transactionCmd.AddCommand(NewTransferCmd(svc))
	transactionCmd.AddCommand(NewBalanceCmd(svc))
	transactionCmd.AddCommand(NewHistoryCmd(svc))
	transactionCmd.AddCommand(NewTransferShowCmd(svc))

	return transactionCmd
}
