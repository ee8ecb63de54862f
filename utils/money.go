package utils

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a money amount for reminder emails, e.g.
// "USD 1,234.50". Unrecognized currency codes fall back to plain
// "<CODE> <amount>" concatenation.
func FormatAmount(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", strings.ToUpper(strings.TrimSpace(code)), amount)
	}
	return amountPrinter.Sprintf("%v %v", unit,
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
