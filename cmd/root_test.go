package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreParse(t *testing.T) {
	t.Run("reads global flags anywhere and keeps the command", func(tt *testing.T) {
		as := assert.New(tt)
		cfgFile, verbose = "", false

		rest := preParse([]string{"-c", "/tmp/kbank.yaml", "doctor", "--repair", "--verbose"})

		as.Equal("/tmp/kbank.yaml", cfgFile)
		as.True(verbose)
		as.Equal([]string{"doctor"}, rest)
	})

	t.Run("leaves command flags alone", func(tt *testing.T) {
		as := assert.New(tt)
		cfgFile, verbose = "", false

		rest := preParse([]string{"transaction", "transfer", "1111111111", "2222222222", "60", "--yes"})

		as.Empty(cfgFile)
		as.False(verbose)
		as.Equal([]string{"transaction", "transfer", "1111111111", "2222222222", "60"}, rest)
	})
}
