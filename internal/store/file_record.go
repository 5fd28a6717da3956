package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hance08/kbank/internal/constants"
	"github.com/hance08/kbank/internal/model"
	"github.com/shopspring/decimal"
)

const recordVersion = 1

// fileRecord is one committed unit of work in the file store. Every line of
// the log holds exactly one record.
type fileRecord struct {
	Version      int                 `json:"v"`
	Batch        string              `json:"batch"`
	CommittedAt  time.Time           `json:"committed_at"`
	Accounts     []accountRecord     `json:"accounts,omitempty"`
	Transactions []transactionRecord `json:"transactions,omitempty"`
}

type accountRecord struct {
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	IDNumber      string    `json:"id_number"`
	DateOfBirth   string    `json:"date_of_birth"`
	CreatedAt     time.Time `json:"created_at"`
}

type transactionRecord struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          string          `json:"kind"`
	TransferID    string          `json:"transfer_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (r *fileRecord) empty() bool {
	return len(r.Accounts) == 0 && len(r.Transactions) == 0
}

func newAccountRecord(acc model.Account) accountRecord {
	return accountRecord{
		AccountNumber: acc.AccountNumber,
		HolderName:    acc.HolderName,
		IDNumber:      acc.IDNumber,
		DateOfBirth:   acc.DateOfBirth.Format(constants.DateFormat),
		CreatedAt:     acc.CreatedAt,
	}
}

func (r accountRecord) toModel() (*model.Account, error) {
	dob, err := time.Parse(constants.DateFormat, r.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("account '%s' has invalid date of birth %q: %w", r.AccountNumber, r.DateOfBirth, ErrCorruptRecord)
	}
	return &model.Account{
		AccountNumber: r.AccountNumber,
		HolderName:    r.HolderName,
		IDNumber:      r.IDNumber,
		DateOfBirth:   dob,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func newTransactionRecord(t model.Transaction) transactionRecord {
	return transactionRecord{
		ID:            t.ID,
		AccountNumber: t.AccountNumber,
		Amount:        t.Amount,
		Kind:          string(t.Kind),
		TransferID:    t.TransferID,
		CreatedAt:     t.CreatedAt,
	}
}

func (r transactionRecord) toModel() *model.Transaction {
	return &model.Transaction{
		ID:            r.ID,
		AccountNumber: r.AccountNumber,
		Amount:        r.Amount,
		Kind:          model.TransactionKind(r.Kind),
		TransferID:    r.TransferID,
		CreatedAt:     r.CreatedAt,
	}
}

func encodeRecord(rec *fileRecord) ([]byte, error) {
	line, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return append(line, '\n'), nil
}

func decodeRecord(line []byte) (*fileRecord, error) {
	var rec fileRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	for _, acc := range rec.Accounts {
		if _, err := acc.toModel(); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// logLine is one newline-delimited entry of the log. Offset is the byte
// position where the line starts; Complete is false for a final line that
// has no terminating newline.
type logLine struct {
	Number   int
	Offset   int64
	Data     []byte
	Complete bool
}

func splitLines(data []byte) []logLine {
	var lines []logLine
	offset := 0
	number := 0
	for offset < len(data) {
		number++
		end := bytes.IndexByte(data[offset:], '\n')
		if end < 0 {
			lines = append(lines, logLine{Number: number, Offset: int64(offset), Data: data[offset:]})
			break
		}
		lines = append(lines, logLine{
			Number:   number,
			Offset:   int64(offset),
			Data:     data[offset : offset+end],
			Complete: true,
		})
		offset += end + 1
	}
	return lines
}
