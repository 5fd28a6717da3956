package prompts

import (
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hance08/kbank/internal/ui"
)

func PromptHolderName(validator func(string) error) (string, error) {
	return PromptInput("Full name:", "", validator)
}

func PromptIDNumber(validator func(string) error) (string, error) {
	return PromptInput("ID number:", "", validator)
}

// PromptDateOfBirth asks for a YYYY-MM-DD date
func PromptDateOfBirth(validator func(string) error) (string, error) {
	return PromptInput("Date of birth (YYYY-MM-DD):", "", validator)
}

func PromptAccountNumber(message string, validator func(string) error) (string, error) {
	return PromptInput(message, "", validator)
}

// PromptTransactInstead is asked when the identity is already registered
func PromptTransactInstead() (bool, error) {
	proceed := false
	prompt := &survey.Confirm{
		Message: "This ID number already has an account. Would you like to transact instead?",
		Default: true,
	}

	if err := survey.AskOne(prompt, &proceed, ui.IconOption()); err != nil {
		return false, err
	}
	return proceed, nil
}

func fmtChoice(n int, label string) string {
	return strconv.Itoa(n) + ". " + label
}

