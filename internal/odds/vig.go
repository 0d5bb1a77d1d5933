package odds

// RemoveVig rescales both sides' raw implied probabilities so they sum
// to 1 (multiplicative overround removal)
func RemoveVig(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}
	total := impliedA + impliedB
	return impliedA / total, impliedB / total
}

// MarketProbability derives the vig-free probability of the modeled side
// from that side's decimal odds and the opposing side's decimal odds.
// The second return value is false when either quote is unusable.
func MarketProbability(sideOdds, opposingOdds float64) (float64, bool) {
	pSide := DecimalToImplied(sideOdds)
	pOther := DecimalToImplied(opposingOdds)
	if pSide <= 0 || pOther <= 0 {
		return 0, false
	}
	fair, _ := RemoveVig(pSide, pOther)
	if fair <= 0 || fair >= 1 {
		return 0, false
	}
	return fair, true
}
