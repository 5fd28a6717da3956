package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/report"
	"github.com/hance08/kbank/internal/service"
	"github.com/shopspring/decimal"
)

type CreateAccountReq struct {
	Name        string `json:"name"`
	IDNumber    string `json:"id_number"`
	DateOfBirth string `json:"date_of_birth"`
}

type ChargeReq struct {
	AccountNumber string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferReq struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Service is what the HTTP handler needs from the bank. Deposit and
// Withdraw return the balance after the operation.
type Service interface {
	CreateAccount(ctx context.Context, req CreateAccountReq) (*model.Account, error)
	GetAccount(ctx context.Context, number string) (*model.Account, error)
	Balance(ctx context.Context, number string) (decimal.Decimal, error)
	History(ctx context.Context, number string) ([]*model.Transaction, error)
	Deposit(ctx context.Context, req ChargeReq) (decimal.Decimal, error)
	Withdraw(ctx context.Context, req ChargeReq) (decimal.Decimal, error)
	Transfer(ctx context.Context, req TransferReq) (*service.TransferReceipt, error)
	GetTransfer(ctx context.Context, transferID string) (*service.TransferReceipt, error)
	Statement(ctx context.Context, w io.Writer, number string) error
}

type bankService struct {
	svc *service.Service
}

var _ Service = (*bankService)(nil)

// NewBankService exposes the account and transaction services through Service
func NewBankService(svc *service.Service) Service {
	return &bankService{svc: svc}
}

func (b *bankService) CreateAccount(ctx context.Context, req CreateAccountReq) (*model.Account, error) {
	dob, err := time.Parse(constants.DateFormat, req.DateOfBirth)
	if err != nil {
		return nil, &service.ValidationError{
			Field: "date of birth",
			Err:   fmt.Errorf("use YYYY-MM-DD"),
		}
	}
	return b.svc.Account.CreateAccount(ctx, req.Name, req.IDNumber, dob)
}

func (b *bankService) GetAccount(ctx context.Context, number string) (*model.Account, error) {
	acc, found, err := b.svc.Account.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("account '%s': %w", number, service.ErrAccountNotFound)
	}
	return acc, nil
}

func (b *bankService) Balance(ctx context.Context, number string) (decimal.Decimal, error) {
	if _, err := b.GetAccount(ctx, number); err != nil {
		return decimal.Zero, err
	}
	return b.svc.Transaction.GetBalance(ctx, number)
}

func (b *bankService) History(ctx context.Context, number string) ([]*model.Transaction, error) {
	if _, err := b.GetAccount(ctx, number); err != nil {
		return nil, err
	}
	return b.svc.Transaction.GetHistory(ctx, number)
}

func (b *bankService) Deposit(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	if _, err := b.svc.Transaction.Deposit(ctx, req.AccountNumber, req.Amount); err != nil {
		return decimal.Zero, err
	}
	return b.svc.Transaction.GetBalance(ctx, req.AccountNumber)
}

func (b *bankService) Withdraw(ctx context.Context, req ChargeReq) (decimal.Decimal, error) {
	if _, err := b.svc.Transaction.Withdraw(ctx, req.AccountNumber, req.Amount); err != nil {
		return decimal.Zero, err
	}
	return b.svc.Transaction.GetBalance(ctx, req.AccountNumber)
}

func (b *bankService) Transfer(ctx context.Context, req TransferReq) (*service.TransferReceipt, error) {
	return b.svc.Transaction.Transfer(ctx, req.From, req.To, req.Amount)
}

func (b *bankService) GetTransfer(ctx context.Context, transferID string) (*service.TransferReceipt, error) {
	return b.svc.Transaction.GetTransfer(ctx, transferID)
}

func (b *bankService) Statement(ctx context.Context, w io.Writer, number string) error {
	stmt, err := b.svc.Transaction.GetStatement(ctx, number)
	if err != nil {
		return err
	}
	return report.WriteStatementPDF(w, stmt)
}
