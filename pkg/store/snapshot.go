package store

import (
	"iter"
	"slices"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/types"
)

// Snapshot is the immutable state of a store at one instant. The zero
// value is the initial state: light theme, no favorites, empty cart.
type Snapshot struct {
	version   uint64
	theme     types.Theme
	user      types.User
	favorites []types.CatalogItem
	cart      []types.CartEntry
}

func (s Snapshot) Version() uint64 {
	return s.version
}

func (s Snapshot) Theme() types.Theme {
	return s.theme
}

func (s Snapshot) User() types.User {
	return s.user
}

// Favorites returns a copy of the favorites in insertion order.
func (s Snapshot) Favorites() []types.CatalogItem {
	return slices.Clone(s.favorites)
}

// Cart returns a copy of the cart entries in insertion order.
func (s Snapshot) Cart() []types.CartEntry {
	return slices.Clone(s.cart)
}

func (s Snapshot) AllFavorites() iter.Seq[types.CatalogItem] {
	return slices.Values(s.favorites)
}

func (s Snapshot) AllCart() iter.Seq[types.CartEntry] {
	return slices.Values(s.cart)
}

func (s Snapshot) FavoritesLen() int {
	return len(s.favorites)
}

func (s Snapshot) CartLen() int {
	return len(s.cart)
}

func (s Snapshot) IsFavorite(id types.ItemId) bool {
	return s.favoriteIndex(id) >= 0
}

func (s Snapshot) CartEntry(id types.ItemId) (types.CartEntry, bool) {
	idx := s.cartIndex(id)
	if idx < 0 {
		return types.CartEntry{}, false
	}
	return s.cart[idx], true
}

func (s Snapshot) favoriteIndex(id types.ItemId) int {
	return slices.IndexFunc(s.favorites, func(item types.CatalogItem) bool {
		return item.Id == id
	})
}

func (s Snapshot) cartIndex(id types.ItemId) int {
	return slices.IndexFunc(s.cart, func(entry types.CartEntry) bool {
		return entry.Id == id
	})
}

// SnapshotView is the wire form of a snapshot.
type SnapshotView struct {
	Version   uint64              `json:"version"`
	Theme     types.Theme         `json:"theme"`
	User      types.User          `json:"user"`
	Favorites []types.CatalogItem `json:"favorites"`
	Cart      []types.CartEntry   `json:"cart"`
}

func (s Snapshot) View() SnapshotView {
	view := SnapshotView{
		Version:   s.version,
		Theme:     s.theme,
		User:      s.user,
		Favorites: s.Favorites(),
		Cart:      s.Cart(),
	}
	if view.Favorites == nil {
		view.Favorites = []types.CatalogItem{}
	}
	if view.Cart == nil {
		view.Cart = []types.CartEntry{}
	}
	return view
}

// FromView rebuilds a snapshot, dropping duplicate ids and entries with a
// non-positive quantity so a restored snapshot holds the same invariants
// as one built by the reducer.
func FromView(view SnapshotView) Snapshot {
	s := Snapshot{
		version: view.Version,
		theme:   view.Theme,
		user:    view.User,
	}
	for _, item := range view.Favorites {
		if s.favoriteIndex(item.Id) < 0 {
			s.favorites = append(s.favorites, item)
		}
	}
	for _, entry := range view.Cart {
		if entry.Quantity > 0 && s.cartIndex(entry.Id) < 0 {
			s.cart = append(s.cart, entry)
		}
	}
	return s
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(s.View())
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var view SnapshotView
	if err := jsoncompat.Unmarshal(data, &view); err != nil {
		return err
	}
	*s = FromView(view)
	return nil
}
