package views

import (
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

type AccountListItem struct {
	AccountNumber string
	HolderName    string
	IDNumber      string
	Balance       decimal.Decimal
}

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

func (v *AccountListView) Render(items []AccountListItem) error {
	if len(items) == 0 {
		pterm.Warning.Println("No accounts registered yet")
		return nil
	}

	tableData := pterm.TableData{{"Account Number", "Name", "ID Number", "Balance"}}

	for _, item := range items {
		balance := utils.FormatAmount(item.Balance)
		if item.Balance.IsZero() {
			balance = pterm.Gray(balance)
		} else {
			balance = pterm.Green(balance)
		}
		tableData = append(tableData, []string{item.AccountNumber, item.HolderName, item.IDNumber, balance})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(items))

	return nil
}
