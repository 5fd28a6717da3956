package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/model"
	"github.com/hance08/kbank/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatementPDF(t *testing.T) {
	acc := &model.Account{
		AccountNumber: "4012345678",
		HolderName:    "Zoë Müller",
		IDNumber:      "63-1234567X42",
		DateOfBirth:   time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC),
	}

	stmt := &service.Statement{
		Account:     acc,
		GeneratedAt: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Closing:     decimal.Zero,
	}
	// enough rows to spill onto a second page
	for i := 0; i < 80; i++ {
		amount := decimal.NewFromInt(int64(10 + i))
		stmt.Closing = stmt.Closing.Add(amount)
		stmt.Credits = stmt.Credits.Add(amount)
		stmt.Lines = append(stmt.Lines, service.StatementLine{
			Transaction: &model.Transaction{
				ID:            int64(1000 + i),
				AccountNumber: acc.AccountNumber,
				Amount:        amount,
				Kind:          model.KindDeposit,
				CreatedAt:     stmt.GeneratedAt.Add(time.Duration(i) * time.Hour),
			},
			Balance: stmt.Closing,
		})
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatementPDF(&buf, stmt))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF header")
	assert.Contains(t, string(out), "%%EOF")
}

func TestWriteStatementPDFEmpty(t *testing.T) {
	stmt := &service.Statement{
		Account:     &model.Account{AccountNumber: "4012345678", HolderName: "Alice"},
		GeneratedAt: time.Now(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatementPDF(&buf, stmt))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
