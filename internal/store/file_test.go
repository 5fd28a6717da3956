package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/kbank/internal/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(number, id string) model.Account {
	return model.Account{
		AccountNumber: number,
		HolderName:    "Holder " + number,
		IDNumber:      id,
		DateOfBirth:   time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC),
	}
}

func testTxn(id int64, number, amount string, kind model.TransactionKind, transferID string) model.Transaction {
	return model.Transaction{
		ID:            id,
		AccountNumber: number,
		Amount:        decimal.RequireFromString(amount),
		Kind:          kind,
		TransferID:    transferID,
		CreatedAt:     time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC),
	}
}

func openFile(t *testing.T, path string) *FileStore {
	t.Helper()
	log := zerolog.Nop()
	s, err := OpenFileStore(path, &log)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func writeLines(t *testing.T, path string, recs ...*fileRecord) {
	t.Helper()
	var data []byte
	for _, rec := range recs {
		line, err := encodeRecord(rec)
		require.NoError(t, err)
		data = append(data, line...)
	}
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func accountBatch(number, id string) *fileRecord {
	return &fileRecord{
		Version:  recordVersion,
		Batch:    "batch-" + number,
		Accounts: []accountRecord{newAccountRecord(testAccount(number, id))},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	as := assert.New(t)
	reqrd := require.New(t)
	path := filepath.Join(t.TempDir(), "kbank.jsonl")

	s := openFile(t, path)
	acc := testAccount("1000000001", "ID-1")
	acc.HolderName = "O'Neil, \"Jo\"\tSmith|x"
	reqrd.NoError(s.SaveAccount(ctx, acc))
	reqrd.NoError(s.SaveAccount(ctx, testAccount("1000000002", "ID-2")))
	reqrd.NoError(s.SaveTransactions(ctx, testTxn(1, "1000000001", "100.50", model.KindDeposit, "")))
	reqrd.NoError(s.SaveTransactions(ctx,
		testTxn(2, "1000000001", "-40", model.KindTransferOut, "t-1"),
		testTxn(3, "1000000002", "40", model.KindTransferIn, "t-1"),
	))
	reqrd.NoError(s.Close())

	reopened := openFile(t, path)

	got, err := reopened.GetAccountByNumber(ctx, "1000000001")
	reqrd.NoError(err)
	as.Equal(acc.HolderName, got.HolderName)
	as.True(acc.DateOfBirth.Equal(got.DateOfBirth))

	byID, err := reopened.GetAccountByIDNumber(ctx, "ID-2")
	reqrd.NoError(err)
	as.Equal("1000000002", byID.AccountNumber)

	all, err := reopened.GetAllAccounts(ctx)
	reqrd.NoError(err)
	as.Len(all, 2)

	txns, err := reopened.GetTransactions(ctx, "1000000001")
	reqrd.NoError(err)
	reqrd.Len(txns, 2)
	as.Equal("60.5", model.SumAmounts(txns).String())

	legs, err := reopened.GetTransfer(ctx, "t-1")
	reqrd.NoError(err)
	reqrd.Len(legs, 2)
	as.Equal(model.KindTransferOut, legs[0].Kind)
	as.Equal(model.KindTransferIn, legs[1].Kind)

	_, err = reopened.GetTransfer(ctx, "t-404")
	as.ErrorIs(err, ErrRecordNotFound)

	_, err = reopened.GetAccountByNumber(ctx, "404")
	as.ErrorIs(err, ErrRecordNotFound)
}

func TestFileStoreExecTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits all rows of a unit of work as one line", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")
		s := openFile(tt, path)

		err := s.ExecTx(ctx, func(repo Repository) error {
			if err := repo.SaveAccount(ctx, testAccount("1000000001", "ID-1")); err != nil {
				return err
			}
			exists, err := repo.AccountNumberExists(ctx, "1000000001")
			reqrd.NoError(err)
			as.True(exists, "batch rows must be visible inside the unit of work")
			return repo.SaveTransactions(ctx, testTxn(1, "1000000001", "5", model.KindDeposit, ""))
		})
		reqrd.NoError(err)

		health, err := InspectFile(path)
		reqrd.NoError(err)
		as.Equal(1, health.Records)
		as.Empty(health.Damaged)
	})

	t.Run("writes nothing when the unit of work fails", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")
		s := openFile(tt, path)
		boom := errors.New("boom")

		err := s.ExecTx(ctx, func(repo Repository) error {
			reqrd.NoError(repo.SaveAccount(ctx, testAccount("1000000001", "ID-1")))
			return boom
		})
		as.ErrorIs(err, boom)

		exists, err := s.AccountNumberExists(ctx, "1000000001")
		reqrd.NoError(err)
		as.False(exists)

		info, err := os.Stat(path)
		reqrd.NoError(err)
		as.Zero(info.Size())
	})

	t.Run("rejects nesting", func(tt *testing.T) {
		s := openFile(tt, filepath.Join(tt.TempDir(), "kbank.jsonl"))
		err := s.ExecTx(ctx, func(repo Repository) error {
			return repo.ExecTx(ctx, func(Repository) error { return nil })
		})
		assert.ErrorIs(tt, err, ErrNestedTx)
	})

	t.Run("rejects reused account number and id number", func(tt *testing.T) {
		as := assert.New(tt)
		s := openFile(tt, filepath.Join(tt.TempDir(), "kbank.jsonl"))
		require.NoError(tt, s.SaveAccount(ctx, testAccount("1000000001", "ID-1")))

		as.ErrorIs(s.SaveAccount(ctx, testAccount("1000000001", "ID-9")), ErrAccountExists)
		as.ErrorIs(s.SaveAccount(ctx, testAccount("1000000009", "ID-1")), ErrAccountExists)
	})

	t.Run("fails after close", func(tt *testing.T) {
		s := openFile(tt, filepath.Join(tt.TempDir(), "kbank.jsonl"))
		require.NoError(tt, s.Close())
		err := s.SaveAccount(ctx, testAccount("1000000001", "ID-1"))
		assert.ErrorIs(tt, err, ErrStoreClosed)
	})
}

func TestFileStoreRecovery(t *testing.T) {
	ctx := context.Background()

	t.Run("drops a torn final record", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")

		writeLines(tt, path, accountBatch("1000000001", "ID-1"))
		valid, err := os.Stat(path)
		reqrd.NoError(err)
		reqrd.NoError(appendBytes(path, []byte(`{"v":1,"batch":"b2","accounts":[{"account_num`)))

		s := openFile(tt, path)
		as.Equal(1, s.RecoveredRecords())

		exists, err := s.AccountNumberExists(ctx, "1000000001")
		reqrd.NoError(err)
		as.True(exists)

		info, err := os.Stat(path)
		reqrd.NoError(err)
		as.Equal(valid.Size(), info.Size())

		quarantined, err := os.ReadFile(DamagedPath(path))
		reqrd.NoError(err)
		as.Contains(string(quarantined), `"batch":"b2"`)

		reqrd.NoError(s.SaveAccount(ctx, testAccount("1000000002", "ID-2")))
		health, err := InspectFile(path)
		reqrd.NoError(err)
		as.Equal(2, health.Records)
		as.Empty(health.Damaged)
		as.True(health.HasQuarantine)
	})

	t.Run("terminates a complete final record without newline", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")

		line, err := encodeRecord(accountBatch("1000000001", "ID-1"))
		reqrd.NoError(err)
		reqrd.NoError(os.WriteFile(path, line[:len(line)-1], 0644))

		s := openFile(tt, path)
		as.Zero(s.RecoveredRecords())
		reqrd.NoError(s.SaveAccount(ctx, testAccount("1000000002", "ID-2")))

		health, err := InspectFile(path)
		reqrd.NoError(err)
		as.Equal(2, health.Records)
	})

	t.Run("refuses to open with damage before the last record", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")

		writeLines(tt, path, accountBatch("1000000001", "ID-1"))
		reqrd.NoError(appendBytes(path, []byte("not json\n")))
		second, err := encodeRecord(accountBatch("1000000002", "ID-2"))
		reqrd.NoError(err)
		reqrd.NoError(appendBytes(path, second))

		log := zerolog.Nop()
		_, err = OpenFileStore(path, &log)
		as.ErrorIs(err, ErrCorruptRecord)

		health, err := InspectFile(path)
		reqrd.NoError(err)
		as.Equal(2, health.Records)
		reqrd.Len(health.Damaged, 1)
		as.Equal(2, health.Damaged[0].Line)

		report, err := RepairFile(path, &log)
		reqrd.NoError(err)
		as.Equal(2, report.Kept)
		as.Equal(1, report.Quarantined)

		s := openFile(tt, path)
		all, err := s.GetAllAccounts(ctx)
		reqrd.NoError(err)
		as.Len(all, 2)

		quarantined, err := os.ReadFile(report.DamagedFile)
		reqrd.NoError(err)
		as.Equal("not json\n", string(quarantined))
	})

	t.Run("refuses records from a newer version", func(tt *testing.T) {
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")
		rec := accountBatch("1000000001", "ID-1")
		rec.Version = recordVersion + 1
		writeLines(tt, path, rec)

		log := zerolog.Nop()
		_, err := OpenFileStore(path, &log)
		assert.ErrorIs(tt, err, ErrUnsupportedVersion)
	})

	t.Run("repair of a healthy log changes nothing", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		path := filepath.Join(tt.TempDir(), "kbank.jsonl")
		writeLines(tt, path, accountBatch("1000000001", "ID-1"))

		before, err := os.ReadFile(path)
		reqrd.NoError(err)

		log := zerolog.Nop()
		report, err := RepairFile(path, &log)
		reqrd.NoError(err)
		as.Equal(1, report.Kept)
		as.Zero(report.Quarantined)

		after, err := os.ReadFile(path)
		reqrd.NoError(err)
		as.Equal(before, after)
		as.NoFileExists(DamagedPath(path))
	})
}
