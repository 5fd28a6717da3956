package utils

import (
	"fmt"
	"strings"

	"github.com/hance08/kbank/internal/constants"
	"github.com/shopspring/decimal"
)

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(constants.AmountScale)
}

// ParseAmount reads a user supplied amount such as "150", "150.5" or "1,250.00".
// The result is rounded half away from zero to two decimal places.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(amountStr), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", amountStr)
	}

	return amount.Round(constants.AmountScale), nil
}
