package prompts

import "github.com/hance08/kbank/internal/validation"

// PromptTransactionAmount asks for a positive amount with at most two decimals
func PromptTransactionAmount(message string) (string, error) {
	return PromptAmount(message, "e.g. 150 or 1,250.50", validation.ValidateAmount)
}

// PromptContinue asks whether to run another transaction on the same account
func PromptContinue() (bool, error) {
	return PromptConfirm("Another transaction?", false)
}
