package errhandler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/kbank/internal/service"
	"github.com/pterm/pterm"
)

// IsCancelled reports whether err comes from the user aborting a prompt
func IsCancelled(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}

// HandleError prints err for the user and returns the process exit code.
// Business outcomes are warnings, everything else is an error.
func HandleError(err error) int {
	if err == nil {
		return 0
	}

	if IsCancelled(err) {
		pterm.Warning.Println("Operation Cancelled")
		return 0
	}

	if service.IsBusinessError(err) {
		pterm.Warning.Println(Capitalize(err.Error()))
		return 1
	}

	pterm.Error.Println(Capitalize(err.Error()))
	return 1
}

func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
