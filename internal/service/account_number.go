package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// NumberGenerator returns a candidate account number of the given length
type NumberGenerator func(length int) (string, error)

// RandomAccountNumber draws a fixed-width decimal account number whose first
// digit is never zero
func RandomAccountNumber(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("account number length must be positive")
	}

	var b strings.Builder
	b.Grow(length)

	for i := 0; i < length; i++ {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}

		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", fmt.Errorf("failed to draw account number digit: %w", err)
		}
		b.WriteByte(byte('0' + lo + n.Int64()))
	}

	return b.String(), nil
}

// AgeOn returns the number of whole years between dob and now
func AgeOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
