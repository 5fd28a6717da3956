package views

import (
	"fmt"

	"github.com/hance08/kbank/internal/model"
	"github.com/pterm/pterm"
)

func RenderHistory(number string, txns []*model.Transaction) error {
	if len(txns) == 0 {
		pterm.Warning.Printf("No transactions found for account %s\n", number)
		return nil
	}

	pterm.DefaultSection.Printf("Transactions of account %s", number)

	tableData := pterm.TableData{
		{"ID", "Date", "Type", "Amount", "Transfer"},
	}

	for _, t := range txns {
		transfer := "-"
		if t.IsTransferLeg() {
			transfer = t.TransferID
		}

		tableData = append(tableData, []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			t.Kind.Label(),
			coloredAmount(t),
			transfer,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txns))
	return nil
}
