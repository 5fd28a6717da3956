package constants

const (
	// Menu actions
	ActionBalance  = "balance"
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionTransfer = "transfer"

	// Date Layout
	DateFormat = "2006-01-02"
)
