package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"150", "150"},
		{"150.5", "150.5"},
		{" 150.50 ", "150.5"},
		{"1,250.00", "1250"},
		{"0.005", "0.01"},
		{"-20", "-20"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(tt *testing.T) {
			got, err := ParseAmount(tc.in)
			require.NoError(tt, err)
			assert.True(tt, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "  ", "abc", "1.2.3", "$10"} {
		t.Run("rejects "+bad, func(tt *testing.T) {
			_, err := ParseAmount(bad)
			assert.Error(tt, err)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.00", FormatAmount(decimal.NewFromInt(100)))
	assert.Equal(t, "-40.50", FormatAmount(decimal.RequireFromString("-40.5")))
}
