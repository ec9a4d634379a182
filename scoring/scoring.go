// Package scoring has the numeric helpers shared by every analyzer. All
// scores live on a 0 to 100 scale and are reported with one decimal.
package scoring

import "math"

// Round1 rounds half away from zero to one decimal.
func Round1(x float64) float64 { return math.Round(x*10) / 10 }

// Round4 rounds half away from zero to four decimals.
func Round4(x float64) float64 { return math.Round(x*1e4) / 1e4 }

// Clamp limits x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}

// Percent clamps x to [0, 100].
func Percent(x float64) float64 { return Clamp(x, 0, 100) }
