package views

import (
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

// RenderTransferPreview shows what a transfer is about to do before it is confirmed
func RenderTransferPreview(from, to *model.Account, amount decimal.Decimal) error {
	pterm.DefaultSection.Println("Transfer Summary")

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"From", from.AccountNumber + " (" + from.HolderName + ")"},
		{"To", to.AccountNumber + " (" + to.HolderName + ")"},
		{"Amount", utils.FormatAmount(amount)},
	}

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
