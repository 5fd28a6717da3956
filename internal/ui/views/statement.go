package views

import (
	"fmt"

	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
)

func RenderStatement(stmt *service.Statement) error {
	ui.PrintL1Title("Statement %s", stmt.Account.AccountNumber)
	pterm.Printf("%s\n", stmt.Account.HolderName)
	pterm.Printf("Generated %s\n\n", stmt.GeneratedAt.Local().Format("2006-01-02 15:04"))

	tableData := pterm.TableData{
		{"Date", "ID", "Type", "Amount", "Balance"},
	}
	for _, line := range stmt.Lines {
		t := line.Transaction
		tableData = append(tableData, []string{
			t.CreatedAt.Local().Format("2006-01-02"),
			fmt.Sprintf("%d", t.ID),
			t.Kind.Label(),
			coloredAmount(t),
			utils.FormatAmount(line.Balance),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	ui.Separator()
	pterm.Printf("Credits: %s   Debits: %s   Closing balance: %s\n",
		pterm.Green(utils.FormatAmount(stmt.Credits)),
		pterm.Red(utils.FormatAmount(stmt.Debits)),
		utils.FormatAmount(stmt.Closing))

	return nil
}
