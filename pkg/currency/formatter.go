// Package currency renders display prices for scored flights.
package currency

import (
	"fmt"
	"math"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
}

// Format renders an amount with its currency symbol when known, falling
// back to the ISO code. Zero-decimal currencies drop the cents.
func Format(amount float64, code string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	var body string
	if code == "JPY" || code == "IDR" || code == "KRW" {
		body = addThousandsSeparator(fmt.Sprintf("%.0f", math.Round(amount)), ",")
	} else {
		whole := math.Floor(amount)
		cents := math.Round((amount - whole) * 100)
		if cents >= 100 {
			whole++
			cents -= 100
		}
		body = fmt.Sprintf("%s.%02.0f", addThousandsSeparator(fmt.Sprintf("%.0f", whole), ","), cents)
	}

	var result string
	if symbol, ok := symbols[code]; ok {
		result = symbol + body
	} else if code != "" {
		result = code + " " + body
	} else {
		result = body
	}
	if negative {
		result = "-" + result
	}
	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}
	return string(result)
}
