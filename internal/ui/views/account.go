package views

import (
	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/ui"
	"github.com/hance08/kbank/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

func RenderAccountSummary(acc *model.Account, balance decimal.Decimal) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account Number"), acc.AccountNumber},
		{pterm.Blue("Name"), acc.HolderName},
		{pterm.Blue("ID Number"), acc.IDNumber},
		{pterm.Blue("Date of Birth"), acc.DateOfBirth.Format(constants.DateFormat)},
		{pterm.Blue("Opened"), acc.CreatedAt.Local().Format("2006-01-02 15:04")},
		{pterm.Blue("Balance"), utils.FormatAmount(balance)},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderAccountCreated(acc *model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account Number"), acc.AccountNumber},
		{pterm.Blue("Name"), acc.HolderName},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Printf("Account created successfully! Your account number is %s\n", acc.AccountNumber)

	return nil
}

func RenderBalance(number string, balance decimal.Decimal) {
	pterm.Info.Printf("Balance of account %s: %s\n", number, utils.FormatAmount(balance))
}
