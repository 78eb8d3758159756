package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR formats a float64 amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
// The result always includes exactly 2 decimal places.
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "₹" + applyIndianGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatQuantity renders a measurement quantity with 3 decimal places, the
// precision the measurement book uses throughout.
func FormatQuantity(qty float64) string {
	return fmt.Sprintf("%.3f", qty)
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// AmountToWords converts a monetary amount to Indian English words for the
// recap sheet, paise included when present.
// Example: 913183.50 → "Rupees Nine Lakhs Thirteen Thousand One Hundred and
// Eighty Three and Fifty Paise Only"
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountToWords(-amount)
	}

	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise == 100 {
		rupees++
		paise = 0
	}

	var sb strings.Builder
	sb.WriteString("Rupees ")
	if rupees == 0 {
		sb.WriteString("Zero")
	} else {
		sb.WriteString(convertToIndianWords(rupees))
	}
	if paise > 0 {
		sb.WriteString(" and ")
		sb.WriteString(convertUnder100(paise))
		sb.WriteString(" Paise")
	}
	sb.WriteString(" Only")
	return sb.String()
}

func convertToIndianWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	if n >= 10000000 {
		parts = append(parts, convertUnder100(n/10000000)+" Crores")
		n %= 10000000
	}

	if n >= 100000 {
		parts = append(parts, convertUnder100(n/100000)+" Lakhs")
		n %= 100000
	}

	if n >= 1000 {
		parts = append(parts, convertUnder100(n/1000)+" Thousand")
		n %= 1000
	}

	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
