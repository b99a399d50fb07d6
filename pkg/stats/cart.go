package stats

import (
	"github.com/matst80/slask-shelf/pkg/store"
)

type CartStats struct {
	TotalItems       int     `json:"totalItems"`
	TotalValue       float64 `json:"totalValue"`
	UniqueProducts   int     `json:"uniqueProducts"`
	AveragePrice     float64 `json:"averagePrice"`
	AverageItemPrice float64 `json:"averageItemPrice"`
}

// CartTotals sums the cart. Both averages are 0 for an empty cart.
func CartTotals(s store.Snapshot) CartStats {
	ret := CartStats{}
	for entry := range s.AllCart() {
		ret.TotalItems += entry.Quantity
		ret.TotalValue += entry.LineTotal()
		ret.UniqueProducts++
	}
	if ret.UniqueProducts > 0 {
		ret.AveragePrice = ret.TotalValue / float64(ret.UniqueProducts)
	}
	if ret.TotalItems > 0 {
		ret.AverageItemPrice = ret.TotalValue / float64(ret.TotalItems)
	}
	return ret
}
