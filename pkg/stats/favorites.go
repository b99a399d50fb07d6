package stats

import (
	"github.com/matst80/slask-shelf/pkg/store"
)

const Uncategorized = "Uncategorized"

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type FavoriteStats struct {
	TotalFavorites int `json:"totalFavorites"`
	// Categories in order of first occurrence among the favorites.
	Categories        []CategoryCount `json:"categories"`
	CategoryBreakdown map[string]int  `json:"categoryBreakdown"`
	TopCategory       string          `json:"topCategory"`
}

func categoryLabel(category string) string {
	if category == "" {
		return Uncategorized
	}
	return category
}

// FavoritesBreakdown counts favorites per category. The top category is the
// first one, in first-occurrence order, to hold the highest count.
func FavoritesBreakdown(s store.Snapshot) FavoriteStats {
	ret := FavoriteStats{
		Categories:        make([]CategoryCount, 0),
		CategoryBreakdown: make(map[string]int),
	}
	position := make(map[string]int)
	for item := range s.AllFavorites() {
		ret.TotalFavorites++
		label := categoryLabel(item.Category)
		idx, ok := position[label]
		if !ok {
			idx = len(ret.Categories)
			position[label] = idx
			ret.Categories = append(ret.Categories, CategoryCount{Category: label})
		}
		ret.Categories[idx].Count++
		ret.CategoryBreakdown[label]++
	}

	best := 0
	for _, c := range ret.Categories {
		if c.Count > best {
			best = c.Count
			ret.TopCategory = c.Category
		}
	}
	return ret
}
