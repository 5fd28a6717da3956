/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package account

import (
	"fmt"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/ui"
	"github.com/hance08/kbank/internal/ui/prompts"
	"github.com/hance08/kbank/internal/ui/views"
	"github.com/hance08/kbank/internal/utils"
	"github.com/hance08/kbank/internal/validation"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type createFlags struct {
	Name        string
	IDNumber    string
	DateOfBirth string
}

// AccountCreator collects the holder details and registers the account
type AccountCreator struct {
	name        string
	idNumber    string
	dateOfBirth time.Time

	svc       *service.Service
	validator *validation.AccountValidator
}

func NewAccountCreator(svc *service.Service) *AccountCreator {
	return &AccountCreator{
		svc:       svc,
		validator: validation.NewAccountValidator(svc.Account),
	}
}

func NewCreateCmd(svc *service.Service) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new account.",
		Long: `Register a new account for a holder. The holder must be of the minimum
age and an identity number can only be registered once. The account number
is generated.

Without flags the details are asked for interactively.

Example: kbank account create -n "Ada Lovelace" -i 63-1234567X42 -d 1990-12-10`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator := NewAccountCreator(svc)

			hasFlags := cmd.Flags().Changed("name") ||
				cmd.Flags().Changed("id-number") ||
				cmd.Flags().Changed("dob")

			if hasFlags {
				return creator.FlagsMode(cmd, flags)
			}
			return creator.InteractiveMode(cmd)
		},
	}

	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Holder full name")
	cmd.Flags().StringVarP(&flags.IDNumber, "id-number", "i", "", "Identity document number")
	cmd.Flags().StringVarP(&flags.DateOfBirth, "dob", "d", "", "Date of birth (YYYY-MM-DD)")

	return cmd
}

// FlagsMode registers the account from command-line flags
func (ac *AccountCreator) FlagsMode(cmd *cobra.Command, flags *createFlags) error {
	if flags.Name == "" || flags.IDNumber == "" || flags.DateOfBirth == "" {
		return fmt.Errorf("--name, --id-number and --dob are all required")
	}

	dob, err := validation.ParseDateOfBirth(flags.DateOfBirth, time.Now())
	if err != nil {
		return &service.ValidationError{Field: "date of birth", Err: err}
	}

	ac.name = flags.Name
	ac.idNumber = flags.IDNumber
	ac.dateOfBirth = dob

	return ac.Save(cmd)
}

// InteractiveMode asks for the holder details
func (ac *AccountCreator) InteractiveMode(cmd *cobra.Command) error {
	// Step 1: Holder name
	name, err := prompts.PromptHolderName(validation.ValidateHolderName)
	if err != nil {
		return err
	}

	// Step 2: Identity number, rejected early when already registered
	idNumber, err := prompts.PromptIDNumber(ac.validator.ValidateIDNumberAvailable(cmd.Context()))
	if err != nil {
		return err
	}

	// Step 3: Date of birth
	dobInput, err := prompts.PromptDateOfBirth(validation.ValidateDateOfBirth)
	if err != nil {
		return err
	}
	dob, err := validation.ParseDateOfBirth(dobInput, time.Now())
	if err != nil {
		return err
	}

	ac.name = name
	ac.idNumber = idNumber
	ac.dateOfBirth = dob
	ac.displaySummary()

	confirm, err := prompts.PromptConfirm("Proceed with account creation?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("account creation cancelled")
	}

	return ac.Save(cmd)
}

func (ac *AccountCreator) displaySummary() {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Name"), ac.name},
		{pterm.Blue("ID Number"), validation.NormalizeIDNumber(ac.idNumber)},
		{pterm.Blue("Date of Birth"), ac.dateOfBirth.Format(constants.DateFormat)},
		{pterm.Blue("Opening Balance"), utils.FormatAmount(decimal.Zero)},
	}

	_ = pterm.DefaultTable.WithData(tableData).Render()
}

// Save registers the account
func (ac *AccountCreator) Save(cmd *cobra.Command) error {
	acc, err := ac.svc.Account.CreateAccount(cmd.Context(), ac.name, ac.idNumber, ac.dateOfBirth)
	if err != nil {
		return err
	}

	return views.RenderAccountCreated(acc)
}
