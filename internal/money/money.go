// Package money formats whole-dollar amounts for display.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Round rounds half away from zero to a whole number.
func Round(v float64) int {
	return int(math.Round(v))
}

// USD renders n as "$1,234".
func USD(n int) string {
	return printer.Sprintf("$%d", n)
}

// Range renders a price band as "$2,142 – $2,618".
func Range(min, max float64) string {
	return USD(Round(min)) + " – " + USD(Round(max))
}

// Int renders n with thousands grouping.
func Int(n int) string {
	return printer.Sprintf("%d", n)
}
