package store

import (
	"slices"

	"github.com/matst80/slask-shelf/pkg/types"
)

// Reduce applies a to s and returns the next snapshot. s is never
// modified. When a changes nothing the same snapshot is returned with an
// unchanged version.
func Reduce(s Snapshot, a Action) Snapshot {
	if a == nil {
		return s
	}
	next, changed := a.reduce(s)
	if !changed {
		return s
	}
	next.version = s.version + 1
	return next
}

func (ToggleTheme) reduce(s Snapshot) (Snapshot, bool) {
	s.theme = s.theme.Toggle()
	return s, true
}

func (a AddToFavorites) reduce(s Snapshot) (Snapshot, bool) {
	if s.favoriteIndex(a.Item.Id) >= 0 {
		return s, false
	}
	// clip so the append never writes into an array shared with s
	s.favorites = append(slices.Clip(s.favorites), a.Item)
	return s, true
}

func (a RemoveFromFavorites) reduce(s Snapshot) (Snapshot, bool) {
	idx := s.favoriteIndex(a.Id)
	if idx < 0 {
		return s, false
	}
	s.favorites = slices.Delete(slices.Clone(s.favorites), idx, idx+1)
	return s, true
}

func (ClearFavorites) reduce(s Snapshot) (Snapshot, bool) {
	if len(s.favorites) == 0 {
		return s, false
	}
	s.favorites = nil
	return s, true
}

func (a AddToCart) reduce(s Snapshot) (Snapshot, bool) {
	idx := s.cartIndex(a.Item.Id)
	if idx < 0 {
		s.cart = append(slices.Clip(s.cart), types.CartEntry{CatalogItem: a.Item, Quantity: 1})
		return s, true
	}
	s.cart = slices.Clone(s.cart)
	s.cart[idx].Quantity++
	return s, true
}

func (a RemoveFromCart) reduce(s Snapshot) (Snapshot, bool) {
	idx := s.cartIndex(a.Id)
	if idx < 0 {
		return s, false
	}
	s.cart = slices.Delete(slices.Clone(s.cart), idx, idx+1)
	return s, true
}

func (a UpdateCartQuantity) reduce(s Snapshot) (Snapshot, bool) {
	if a.Quantity <= 0 {
		return RemoveFromCart{Id: a.Id}.reduce(s)
	}
	idx := s.cartIndex(a.Id)
	if idx < 0 || s.cart[idx].Quantity == a.Quantity {
		return s, false
	}
	s.cart = slices.Clone(s.cart)
	s.cart[idx].Quantity = a.Quantity
	return s, true
}

func (ClearCart) reduce(s Snapshot) (Snapshot, bool) {
	if len(s.cart) == 0 {
		return s, false
	}
	s.cart = nil
	return s, true
}

func (a UpdateUser) reduce(s Snapshot) (Snapshot, bool) {
	merged := s.user.Merge(a.Patch)
	if merged == s.user {
		return s, false
	}
	s.user = merged
	return s, true
}
