package analytics

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Average returns sum/count rounded to two decimals, or 0 when count is 0.
func Average(sum float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromFloat(sum).
		Div(decimal.NewFromInt(count)).
		Round(2).
		InexactFloat64()
}

// Fraction returns the share of true flags in [0,1]; 0 for no flags.
func Fraction(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	hits := 0
	for _, f := range flags {
		if f {
			hits++
		}
	}
	return float64(hits) / float64(len(flags))
}

// Trend is the percent change from previous to current. Growth from a zero
// baseline is reported as 100, no growth from zero as 0.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
