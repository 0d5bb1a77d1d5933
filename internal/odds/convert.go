// Package odds converts between American and decimal price formats and
// derives vig-free probabilities from two-sided quotes.
package odds

import "math"

// AmericanToDecimal converts American odds to decimal odds.
// Example: -150 -> 1.6667, +130 -> 2.30. Zero is not a valid quote.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 1.0 + float64(american)/100.0
	}
	return 1.0 + 100.0/math.Abs(float64(american))
}

// DecimalToImplied converts decimal odds to raw implied probability
func DecimalToImplied(decimalOdds float64) float64 {
	if decimalOdds <= 1 {
		return 0
	}
	return 1.0 / decimalOdds
}
