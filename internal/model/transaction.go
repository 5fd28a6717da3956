package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit     TransactionKind = "deposit"
	KindWithdrawal  TransactionKind = "withdrawal"
	KindTransferOut TransactionKind = "transfer_out"
	KindTransferIn  TransactionKind = "transfer_in"
)

// Label is the display name of the kind
func (k TransactionKind) Label() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdrawal:
		return "Withdrawal"
	case KindTransferOut:
		return "Transfer Out"
	case KindTransferIn:
		return "Transfer In"
	default:
		return string(k)
	}
}

// Transaction is a signed movement against one account.
// Amount is positive for credits and negative for debits.
type Transaction struct {
	ID            int64
	AccountNumber string
	Amount        decimal.Decimal
	Kind          TransactionKind
	TransferID    string
	CreatedAt     time.Time
}

// IsTransferLeg reports whether the transaction is one side of a transfer
func (t *Transaction) IsTransferLeg() bool {
	return t.TransferID != ""
}

// SumAmounts returns the signed sum of the given transactions
func SumAmounts(txns []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}
