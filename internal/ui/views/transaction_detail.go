package views

import (
	"fmt"

	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
)

func RenderTransferReceipt(r *service.TransferReceipt) error {
	pterm.Println()
	ui.PrintL2Title("Transfer")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"Transfer ID", r.TransferID},
		{"Date", r.Debit.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"From", r.From},
		{"To", r.To},
		{"Amount", utils.FormatAmount(r.Amount)},
	}
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Legs")
	legsData := pterm.TableData{
		{"ID", "Account", "Type", "Amount"},
	}
	for _, leg := range []struct {
		id      int64
		account string
		label   string
		amount  string
	}{
		{r.Debit.ID, r.Debit.AccountNumber, r.Debit.Kind.Label(), coloredAmount(r.Debit)},
		{r.Credit.ID, r.Credit.AccountNumber, r.Credit.Kind.Label(), coloredAmount(r.Credit)},
	} {
		legsData = append(legsData, []string{fmt.Sprintf("%d", leg.id), leg.account, leg.label, leg.amount})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(legsData).
		Render()
}
