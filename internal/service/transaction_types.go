package service

import (
	"time"

	"github.com/hance08/kbank/internal/model"
	"github.com/shopspring/decimal"
)

// TransferReceipt describes a completed transfer. Debit is the negative leg
// on the source account, Credit the positive leg on the destination.
type TransferReceipt struct {
	TransferID string
	From       string
	To         string
	Amount     decimal.Decimal
	Debit      *model.Transaction
	Credit     *model.Transaction
}

type StatementLine struct {
	Transaction *model.Transaction
	Balance     decimal.Decimal
}

// Statement is the full history of one account with a running balance
type Statement struct {
	Account     *model.Account
	Lines       []StatementLine
	Credits     decimal.Decimal
	Debits      decimal.Decimal
	Closing     decimal.Decimal
	GeneratedAt time.Time
}
