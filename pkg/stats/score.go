package stats

import "math"

const (
	cartValueTarget     = 1000.0
	favoriteCountTarget = 10.0
)

func percentOf(value, target float64) float64 {
	if math.IsNaN(value) || value <= 0 {
		return 0
	}
	return min(value/target*100, 100)
}

// CartScore is the cart value as a percentage of 1000, capped at 100.
func CartScore(totalValue float64) float64 {
	return percentOf(totalValue, cartValueTarget)
}

// FavoriteScore is the favorite count as a percentage of 10, capped at 100.
func FavoriteScore(totalFavorites int) float64 {
	return percentOf(float64(totalFavorites), favoriteCountTarget)
}

// PerformanceScore averages the cart and favorite scores, rounded to an
// integer in [0, 100].
func PerformanceScore(totalValue float64, totalFavorites int) int {
	return int(math.Round((CartScore(totalValue) + FavoriteScore(totalFavorites)) / 2))
}
