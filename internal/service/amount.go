package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a price with thousands separators, e.g. 1250000
// becomes "1,250,000".
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}
