package prompts

import "github.com/hance08/kbank/internal/constants"

const (
	MenuRegister = "register"
	MenuTransact = "transact"
	MenuExit     = "exit"
)

// PromptMainMenu is the entry menu of the interactive console
func PromptMainMenu() (string, error) {
	return PromptChoice("Welcome to kbank. What would you like to do?", []Choice{
		{Label: "Register an account", Value: MenuRegister},
		{Label: "Transact", Value: MenuTransact},
		{Label: "Exit", Value: MenuExit},
	})
}

// PromptTransactionAction asks which operation to run on the account
func PromptTransactionAction() (string, error) {
	return PromptChoice("Choose a transaction:", []Choice{
		{Label: "Check balance", Value: constants.ActionBalance},
		{Label: "Deposit", Value: constants.ActionDeposit},
		{Label: "Withdraw", Value: constants.ActionWithdraw},
		{Label: "Transfer", Value: constants.ActionTransfer},
	})
}
