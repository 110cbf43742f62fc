// utils/numbers.go
package utils

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders an integer with thousand separators for user
// facing messages, e.g. 1000000 -> "1,000,000".
func FormatNumber(value int64) string {
	return printer.Sprintf("%d", value)
}

// FormatDecimal renders a float with thousand separators and two
// decimals.
func FormatDecimal(value float64) string {
	return printer.Sprintf("%.2f", value)
}

// ParseNumber parses admin supplied numbers leniently, accepting the
// separators FormatNumber emits so values can be copied back in.
func ParseNumber(value string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	return strconv.Atoi(cleaned)
}
