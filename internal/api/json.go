package api

import (
	"strconv"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/hance08/kbank/internal/utils"
	"github.com/shopspring/decimal"
)

// AccountResp is the wire form of an account, also used by `account show -o json|yaml`
type AccountResp struct {
	AccountNumber string    `json:"account_number" yaml:"account_number"`
	HolderName    string    `json:"holder_name" yaml:"holder_name"`
	IDNumber      string    `json:"id_number" yaml:"id_number"`
	DateOfBirth   string    `json:"date_of_birth" yaml:"date_of_birth"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Balance       string    `json:"balance,omitempty" yaml:"balance,omitempty"`
}

func NewAccountResp(acc *model.Account) AccountResp {
	return AccountResp{
		AccountNumber: acc.AccountNumber,
		HolderName:    acc.HolderName,
		IDNumber:      acc.IDNumber,
		DateOfBirth:   acc.DateOfBirth.Format(constants.DateFormat),
		CreatedAt:     acc.CreatedAt,
	}
}

// TransactionResp carries the id as a string; snowflake ids overflow
// JavaScript numbers.
type TransactionResp struct {
	ID            string    `json:"id" yaml:"id"`
	AccountNumber string    `json:"account_number" yaml:"account_number"`
	Amount        string    `json:"amount" yaml:"amount"`
	Kind          string    `json:"kind" yaml:"kind"`
	TransferID    string    `json:"transfer_id,omitempty" yaml:"transfer_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

func NewTransactionResp(t *model.Transaction) TransactionResp {
	return TransactionResp{
		ID:            strconv.FormatInt(t.ID, 10),
		AccountNumber: t.AccountNumber,
		Amount:        utils.FormatAmount(t.Amount),
		Kind:          string(t.Kind),
		TransferID:    t.TransferID,
		CreatedAt:     t.CreatedAt,
	}
}

type ReceiptResp struct {
	TransferID string          `json:"transfer_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Amount     string          `json:"amount"`
	Debit      TransactionResp `json:"debit"`
	Credit     TransactionResp `json:"credit"`
}

func NewReceiptResp(r *service.TransferReceipt) ReceiptResp {
	return ReceiptResp{
		TransferID: r.TransferID,
		From:       r.From,
		To:         r.To,
		Amount:     utils.FormatAmount(r.Amount),
		Debit:      NewTransactionResp(r.Debit),
		Credit:     NewTransactionResp(r.Credit),
	}
}

type balanceResp struct {
	AccountNumber string `json:"account_number"`
	Balance       string `json:"balance"`
}

func newBalanceResp(number string, balance decimal.Decimal) balanceResp {
	return balanceResp{AccountNumber: number, Balance: utils.FormatAmount(balance)}
}
