package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "USD 1,234.56", FormatAmount(1234.56, "USD"))
	assert.Equal(t, "EUR 99.00", FormatAmount(99, "EUR"))
	assert.Equal(t, "USD 1,250.00", FormatAmount(1250, "USD"))
}

func TestFormatAmountUnknownCodeFallsBack(t *testing.T) {
	assert.Equal(t, "ZZZ 12.00", FormatAmount(12, "zzz"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -1.23, Round2(-1.234))
}
