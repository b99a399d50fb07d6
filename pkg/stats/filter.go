package stats

import (
	"strings"

	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
)

// AllCategories matches every category in FilterFavorites.
const AllCategories = "all"

func containsFold(value, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(value), lowerQuery)
}

// FilterFavorites returns the favorites whose name or category contains
// query (case-insensitive). A category other than "" or "all" additionally
// restricts the result to that exact category label.
func FilterFavorites(s store.Snapshot, query string, category string) []types.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	ret := make([]types.CatalogItem, 0, s.FavoritesLen())
	for item := range s.AllFavorites() {
		if category != "" && category != AllCategories && categoryLabel(item.Category) != category {
			continue
		}
		if q == "" || containsFold(item.Name, q) || containsFold(item.Category, q) {
			ret = append(ret, item)
		}
	}
	return ret
}

// FilterCart returns the cart entries whose name contains query
// (case-insensitive).
func FilterCart(s store.Snapshot, query string) []types.CartEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	ret := make([]types.CartEntry, 0, s.CartLen())
	for entry := range s.AllCart() {
		if q == "" || containsFold(entry.Name, q) {
			ret = append(ret, entry)
		}
	}
	return ret
}
