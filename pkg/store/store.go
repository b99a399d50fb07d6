package store

import (
	"slices"
	"sync"

	"github.com/matst80/slask-shelf/pkg/types"
)

type Listener func(prev, next Snapshot, action Action)

// Store owns the current snapshot of one session. Every command is applied
// under a single lock, so a reader never sees a partially applied command.
type Store struct {
	mu      sync.RWMutex
	current Snapshot

	// notifyMu keeps listener calls in command order.
	notifyMu  sync.Mutex
	listeners []subscription
	nextId    uint64
}

type subscription struct {
	id uint64
	fn Listener
}

type Option func(*Snapshot)

func WithTheme(theme types.Theme) Option {
	return func(s *Snapshot) {
		s.theme = theme
	}
}

func WithUser(user types.User) Option {
	return func(s *Snapshot) {
		s.user = user
	}
}

// WithSnapshot starts the store from a previously captured snapshot.
func WithSnapshot(snapshot Snapshot) Option {
	return func(s *Snapshot) {
		*s = snapshot
	}
}

func NewStore(opts ...Option) *Store {
	initial := Snapshot{}
	for _, opt := range opts {
		opt(&initial)
	}
	return &Store{current: initial}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called after every command that changed the
// state. Listeners run in subscription order outside the state lock and may
// read the store, but must not dispatch.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	id := s.nextId
	s.nextId++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.notifyMu.Unlock()
	return func() {
		s.notifyMu.Lock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
			return sub.id == id
		})
		s.notifyMu.Unlock()
	}
}

// Dispatch applies action and returns the resulting snapshot.
func (s *Store) Dispatch(action Action) Snapshot {
	next, _ := s.Apply(action)
	return next
}

// Apply is Dispatch that also reports whether the action changed the state.
func (s *Store) Apply(action Action) (Snapshot, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.current
	next := Reduce(prev, action)
	s.current = next
	s.mu.Unlock()

	changed := next.version != prev.version
	if changed {
		for _, sub := range s.listeners {
			sub.fn(prev, next, action)
		}
	}
	return next, changed
}

func (s *Store) ToggleTheme() Snapshot {
	return s.Dispatch(ToggleTheme{})
}

func (s *Store) AddToFavorites(item types.CatalogItem) Snapshot {
	return s.Dispatch(AddToFavorites{Item: item})
}

func (s *Store) RemoveFromFavorites(id types.ItemId) Snapshot {
	return s.Dispatch(RemoveFromFavorites{Id: id})
}

func (s *Store) ClearFavorites() Snapshot {
	return s.Dispatch(ClearFavorites{})
}

func (s *Store) AddToCart(item types.CatalogItem) Snapshot {
	return s.Dispatch(AddToCart{Item: item})
}

func (s *Store) RemoveFromCart(id types.ItemId) Snapshot {
	return s.Dispatch(RemoveFromCart{Id: id})
}

func (s *Store) UpdateCartQuantity(id types.ItemId, quantity int) Snapshot {
	return s.Dispatch(UpdateCartQuantity{Id: id, Quantity: quantity})
}

func (s *Store) ClearCart() Snapshot {
	return s.Dispatch(ClearCart{})
}

func (s *Store) UpdateUser(patch types.User) Snapshot {
	return s.Dispatch(UpdateUser{Patch: patch})
}
