package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// currencyPrecision lists currencies that do not use two decimal places.
var currencyPrecision = map[string]int32{
	"JPY": 0,
}

// FormatWithPrecision formats an amount with the given precision
// Example: amount 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatCurrency renders amount with the currency's symbol and digit grouping.
// INR uses lakh/crore grouping: 2450000 -> "₹24,50,000.00". Others group by thousands.
// Unknown codes are prefixed with the code itself.
func FormatCurrency(amount decimal.Decimal, currencyCode string) string {
	precision, ok := currencyPrecision[currencyCode]
	if !ok {
		precision = 2
	}

	fixed := amount.Abs().StringFixed(precision)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped string
	if currencyCode == "INR" {
		grouped = groupIndian(intPart)
	} else {
		grouped = groupThousands(intPart)
	}
	if fracPart != "" {
		grouped += "." + fracPart
	}

	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + symbol + grouped
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian keeps the last three digits together and groups the rest in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}
