package model

import "time"

type Account struct {
	AccountNumber string
	HolderName    string
	IDNumber      string
	DateOfBirth   time.Time
	CreatedAt     time.Time
}
