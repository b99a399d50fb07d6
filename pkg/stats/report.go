package stats

import (
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
)

type FilterOptions struct {
	Query     string `json:"query" schema:"q"`
	Category  string `json:"category" schema:"category"`
	CartQuery string `json:"cartQuery" schema:"cart_q"`
}

// Report is everything the dashboard views render for one snapshot.
type Report struct {
	Version           uint64              `json:"version"`
	Theme             types.Theme         `json:"theme"`
	Cart              CartStats           `json:"cart"`
	Favorites         FavoriteStats       `json:"favorites"`
	CartScore         float64             `json:"cartScore"`
	FavoriteScore     float64             `json:"favoriteScore"`
	PerformanceScore  int                 `json:"performanceScore"`
	FilteredFavorites []types.CatalogItem `json:"filteredFavorites"`
	FilteredCart      []types.CartEntry   `json:"filteredCart"`
}

func BuildReport(s store.Snapshot, opts FilterOptions) Report {
	cart := CartTotals(s)
	favorites := FavoritesBreakdown(s)
	return Report{
		Version:           s.Version(),
		Theme:             s.Theme(),
		Cart:              cart,
		Favorites:         favorites,
		CartScore:         CartScore(cart.TotalValue),
		FavoriteScore:     FavoriteScore(favorites.TotalFavorites),
		PerformanceScore:  PerformanceScore(cart.TotalValue, favorites.TotalFavorites),
		FilteredFavorites: FilterFavorites(s, opts.Query, opts.Category),
		FilteredCart:      FilterCart(s, opts.CartQuery),
	}
}
