package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/kbank/internal/model"
	"github.com/rs/zerolog"
)

// FileStore keeps accounts and transactions in an append-only log of
// versioned JSON records. Each ExecTx commits exactly one line with a single
// write and fsync, so multi-row work such as a transfer lands together or not
// at all. The log is replayed into memory on open.
type FileStore struct {
	state *fileState
	batch *fileRecord
}

type fileState struct {
	mu   sync.Mutex
	path string
	file *os.File
	size int64
	log  *zerolog.Logger

	records    int
	recovered  int
	accounts   []*model.Account
	byNumber   map[string]*model.Account
	byIDNumber map[string]*model.Account
	txns       map[string][]*model.Transaction
	transfers  map[string][]*model.Transaction
}

var _ Repository = (*FileStore)(nil)

func DamagedPath(path string) string {
	return path + ".damaged"
}

// OpenFileStore replays the log at path. A final line that cannot be decoded
// is the remains of an interrupted append: it is moved to the damaged file and
// cut from the log. Any other undecodable line fails the open with
// ErrCorruptRecord; RepairFile handles that case.
func OpenFileStore(path string, log *zerolog.Logger) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("can not create store directory %s: %w", dir, err)
	}

	st := &fileState{
		path:       path,
		log:        log,
		byNumber:   make(map[string]*model.Account),
		byIDNumber: make(map[string]*model.Account),
		txns:       make(map[string][]*model.Transaction),
		transfers:  make(map[string][]*model.Transaction),
	}

	if err := st.replay(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("can not open store file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("can not stat store file %s: %w", path, err)
	}
	st.file = f
	st.size = info.Size()

	log.Debug().
		Str("path", path).
		Int("records", st.records).
		Int("accounts", len(st.accounts)).
		Msg("file store ready")

	return &FileStore{state: st}, nil
}

func (st *fileState) replay() error {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("can not read store file %s: %w", st.path, err)
	}

	lines := splitLines(data)
	for i, line := range lines {
		if len(bytes.TrimSpace(line.Data)) == 0 {
			continue
		}

		rec, err := decodeRecord(line.Data)
		if err != nil {
			last := i == len(lines)-1
			if last && errors.Is(err, ErrCorruptRecord) {
				return st.dropTornTail(line, err)
			}
			return fmt.Errorf("%s line %d: %w", st.path, line.Number, err)
		}

		if err := st.apply(rec); err != nil {
			return fmt.Errorf("%s line %d: %w", st.path, line.Number, err)
		}

		if !line.Complete {
			if err := appendBytes(st.path, []byte("\n")); err != nil {
				return fmt.Errorf("failed to terminate last record: %w", err)
			}
		}
	}

	return nil
}

func (st *fileState) dropTornTail(line logLine, cause error) error {
	if err := appendBytes(DamagedPath(st.path), append(append([]byte{}, line.Data...), '\n')); err != nil {
		return fmt.Errorf("failed to quarantine torn record: %w", err)
	}
	if err := os.Truncate(st.path, line.Offset); err != nil {
		return fmt.Errorf("failed to truncate torn record: %w", err)
	}
	st.recovered++

	st.log.Warn().
		Err(cause).
		Str("path", st.path).
		Int("line", line.Number).
		Str("quarantine", DamagedPath(st.path)).
		Msg("dropped incomplete trailing record")

	return nil
}

func (st *fileState) apply(rec *fileRecord) error {
	for _, r := range rec.Accounts {
		acc, err := r.toModel()
		if err != nil {
			return err
		}
		if _, ok := st.byNumber[acc.AccountNumber]; ok {
			return fmt.Errorf("duplicate account number '%s': %w", acc.AccountNumber, ErrCorruptRecord)
		}
		st.accounts = append(st.accounts, acc)
		st.byNumber[acc.AccountNumber] = acc
		st.byIDNumber[acc.IDNumber] = acc
	}

	for _, r := range rec.Transactions {
		t := r.toModel()
		st.txns[t.AccountNumber] = append(st.txns[t.AccountNumber], t)
		if t.TransferID != "" {
			st.transfers[t.TransferID] = append(st.transfers[t.TransferID], t)
		}
	}

	st.records++
	return nil
}

// commit writes rec as one line. A failed write is cut back so the log never
// keeps a partial line behind a later record.
func (st *fileState) commit(rec *fileRecord) error {
	line, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	n, err := st.file.Write(line)
	if err == nil {
		err = st.file.Sync()
	}
	if err != nil {
		if n > 0 {
			if tErr := st.file.Truncate(st.size); tErr != nil {
				st.log.Error().Err(tErr).Str("path", st.path).Msg("failed to cut back partial record")
			}
		}
		return fmt.Errorf("failed to append record: %w", err)
	}
	st.size += int64(n)

	return st.apply(rec)
}

func (s *FileStore) ExecTx(ctx context.Context, fn func(Repository) error) error {
	if s.batch != nil {
		return ErrNestedTx
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.file == nil {
		return ErrStoreClosed
	}

	view := &FileStore{
		state: st,
		batch: &fileRecord{Version: recordVersion, Batch: uuid.NewString()},
	}

	if err := fn(view); err != nil {
		return err
	}
	if view.batch.empty() {
		return nil
	}

	view.batch.CommittedAt = time.Now().UTC()
	return st.commit(view.batch)
}

func (s *FileStore) Close() error {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.file == nil {
		return nil
	}
	err := st.file.Close()
	st.file = nil
	return err
}

// Path returns the location of the log file
func (s *FileStore) Path() string {
	return s.state.path
}

// RecoveredRecords reports how many torn records were dropped on open
func (s *FileStore) RecoveredRecords() int {
	return s.state.recovered
}

// lock guards reads outside ExecTx. Inside ExecTx the caller already holds the mutex.
func (s *FileStore) lock() func() {
	if s.batch != nil {
		return func() {}
	}
	s.state.mu.Lock()
	return s.state.mu.Unlock
}

func (s *FileStore) SaveAccount(ctx context.Context, acc model.Account) error {
	if s.batch == nil {
		return s.ExecTx(ctx, func(repo Repository) error {
			return repo.SaveAccount(ctx, acc)
		})
	}

	if s.findAccount(acc.AccountNumber) != nil {
		return fmt.Errorf("failed to create account '%s': %w", acc.AccountNumber, ErrAccountExists)
	}
	if s.findByIDNumber(acc.IDNumber) != nil {
		return fmt.Errorf("failed to create account '%s': id number in use: %w", acc.AccountNumber, ErrAccountExists)
	}

	s.batch.Accounts = append(s.batch.Accounts, newAccountRecord(acc))
	return nil
}

func (s *FileStore) GetAllAccounts(ctx context.Context) ([]*model.Account, error) {
	unlock := s.lock()
	defer unlock()

	accounts := make([]*model.Account, 0, len(s.state.accounts))
	for _, acc := range s.state.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	if s.batch != nil {
		for _, r := range s.batch.Accounts {
			acc, err := r.toModel()
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (s *FileStore) GetAccountByNumber(ctx context.Context, number string) (*model.Account, error) {
	unlock := s.lock()
	defer unlock()

	acc := s.findAccount(number)
	if acc == nil {
		return nil, fmt.Errorf("account '%s': %w", number, ErrRecordNotFound)
	}
	return acc, nil
}

func (s *FileStore) GetAccountByIDNumber(ctx context.Context, idNumber string) (*model.Account, error) {
	unlock := s.lock()
	defer unlock()

	acc := s.findByIDNumber(idNumber)
	if acc == nil {
		return nil, fmt.Errorf("account with id number '%s': %w", idNumber, ErrRecordNotFound)
	}
	return acc, nil
}

func (s *FileStore) AccountNumberExists(ctx context.Context, number string) (bool, error) {
	unlock := s.lock()
	defer unlock()

	return s.findAccount(number) != nil, nil
}

func (s *FileStore) SaveTransactions(ctx context.Context, txns ...model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if s.batch == nil {
		return s.ExecTx(ctx, func(repo Repository) error {
			return repo.SaveTransactions(ctx, txns...)
		})
	}

	for _, t := range txns {
		s.batch.Transactions = append(s.batch.Transactions, newTransactionRecord(t))
	}
	return nil
}

func (s *FileStore) GetTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	unlock := s.lock()
	defer unlock()

	committed := s.state.txns[accountNumber]
	txns := make([]*model.Transaction, 0, len(committed))
	for _, t := range committed {
		cp := *t
		txns = append(txns, &cp)
	}
	if s.batch != nil {
		for _, r := range s.batch.Transactions {
			if r.AccountNumber == accountNumber {
				txns = append(txns, r.toModel())
			}
		}
	}
	return txns, nil
}

func (s *FileStore) GetTransfer(ctx context.Context, transferID string) ([]*model.Transaction, error) {
	unlock := s.lock()
	defer unlock()

	var legs []*model.Transaction
	for _, t := range s.state.transfers[transferID] {
		cp := *t
		legs = append(legs, &cp)
	}
	if s.batch != nil {
		for _, r := range s.batch.Transactions {
			if r.TransferID == transferID {
				legs = append(legs, r.toModel())
			}
		}
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("transfer '%s': %w", transferID, ErrRecordNotFound)
	}

	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].Amount.LessThan(legs[j].Amount)
	})
	return legs, nil
}

func (s *FileStore) findAccount(number string) *model.Account {
	if acc, ok := s.state.byNumber[number]; ok {
		cp := *acc
		return &cp
	}
	if s.batch != nil {
		for _, r := range s.batch.Accounts {
			if r.AccountNumber == number {
				acc, _ := r.toModel()
				return acc
			}
		}
	}
	return nil
}

func (s *FileStore) findByIDNumber(idNumber string) *model.Account {
	if acc, ok := s.state.byIDNumber[idNumber]; ok {
		cp := *acc
		return &cp
	}
	if s.batch != nil {
		for _, r := range s.batch.Accounts {
			if r.IDNumber == idNumber {
				acc, _ := r.toModel()
				return acc
			}
		}
	}
	return nil
}

func appendBytes(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
