package store

import "errors"

var (
	ErrAccountExists       = errors.New("account already exists")
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("database constraint violation")
	ErrCorruptRecord       = errors.New("corrupt store record")
	ErrUnsupportedVersion  = errors.New("unsupported record version")
	ErrNestedTx            = errors.New("store is already in a transaction")
	ErrUnknownDriver       = errors.New("unknown storage driver")
	ErrStoreClosed         = errors.New("store is closed")
)
