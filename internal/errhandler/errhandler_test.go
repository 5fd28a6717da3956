package errhandler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/hance08/kbank/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"interrupt", fmt.Errorf("prompt: %w", terminal.InterruptErr), 0},
		{"business", &service.InsufficientFundsError{AccountNumber: "1", Shortfall: decimal.NewFromInt(5)}, 1},
		{"fault", errors.New("disk I/O error"), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			assert.Equal(tt, tc.code, HandleError(tc.err))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Account not found", Capitalize("account not found"))
	assert.Equal(t, "", Capitalize(""))
}
