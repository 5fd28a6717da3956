package constants

const (
	MaxNameLen     = 100
	MaxIDNumberLen = 32
	AmountScale    = 2
)

const (
	DefaultMinimumAge          = 18
	DefaultAccountNumberLength = 10
	MinAccountNumberLength     = 6
	MaxAccountNumberLength     = 18
	AccountNumberAttempts      = 20
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)
