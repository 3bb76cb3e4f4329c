// Package money formats integer cent amounts as Brazilian real strings.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders cents as "R$ 1.234,50".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "R$ " + printer.Sprintf("%.2f", float64(cents)/100)
}

// Sum adds amounts, returning 0 for an empty list.
func Sum(amounts ...int64) int64 {
	var total int64
	for _, amount := range amounts {
		total += amount
	}
	return total
}
