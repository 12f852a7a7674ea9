package sanitizer

import "math"

const (
	MinYear = 0

	MaxYear = 9999
)

func NormalizeYear(year int) int {
	if year < MinYear {
		return MinYear
	}
	if year > MaxYear {
		return MaxYear
	}
	return year
}

// NormalizeCost rounds to cents. Negative and non-finite costs become zero.
func NormalizeCost(cost float64) float64 {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return 0
	}
	return math.Round(cost*100) / 100
}
