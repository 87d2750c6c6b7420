package currency

import (
	"fmt"
	"math"
	"strings"
)

// Format renders an amount as "PKR 45,210". An empty code yields the bare
// number.
func Format(amount float64, code string) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intStr := fmt.Sprintf("%.0f", rounded)
	formatted := addThousandsSeparator(intStr, ',')

	code = strings.TrimSpace(code)
	if code != "" {
		formatted = code + " " + formatted
	}
	if negative {
		formatted = "-" + formatted
	}

	return formatted
}

func addThousandsSeparator(s string, sep byte) string {
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
			result[j] = sep
			j--
		}
	}

	return string(result)
}
