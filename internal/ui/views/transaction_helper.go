package views

import (
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
)

// coloredAmount prints credits green and debits red
func coloredAmount(t *model.Transaction) string {
	s := utils.FormatAmount(t.Amount)
	if t.Amount.IsNegative() {
		return pterm.Red(s)
	}
	return pterm.Green(s)
}
