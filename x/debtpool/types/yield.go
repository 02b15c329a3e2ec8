package types

import (
	"cosmossdk.io/math"
)

// Yield arithmetic constants
const (
	SecondsPerYear = 31536000
	BpsScale       = 10000
)

// FixedPointScale is the 1e18 scale used for year fractions
var FixedPointScale = math.NewIntWithDecimal(1, 18)

// AccruedYield computes the yield accrued on principal at rateBps over
// [start, end). The year fraction is carried at 1e18 fixed point and every
// division truncates toward zero, so the result never exceeds the exact
// value. Discounted and coupon instruments share this formula.
func AccruedYield(principal math.Int, rateBps int64, start, end int64) math.Int {
	if end <= start || rateBps <= 0 || !principal.IsPositive() {
		return math.ZeroInt()
	}

	annual := principal.MulRaw(rateBps).QuoRaw(BpsScale)
	yearFraction := math.NewInt(end - start).Mul(FixedPointScale).QuoRaw(SecondsPerYear)
	return annual.Mul(yearFraction).Quo(FixedPointScale)
}

// MaturityValue returns principal plus the yield accrued over [start, end)
func MaturityValue(principal math.Int, rateBps int64, start, end int64) math.Int {
	return principal.Add(AccruedYield(principal, rateBps, start, end))
}
