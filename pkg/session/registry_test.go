package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type memoryMirror struct {
	mu      sync.Mutex
	data    map[string]store.Snapshot
	saves   int
	failing bool
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{data: make(map[string]store.Snapshot)}
}

func (m *memoryMirror) Load(ctx context.Context, id string) (store.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return store.Snapshot{}, false, errors.New("mirror down")
	}
	s, ok := m.data[id]
	return s, ok, nil
}

func (m *memoryMirror) Save(ctx context.Context, id string, s store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[id] = s
	return nil
}

func (m *memoryMirror) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var laptop = types.CatalogItem{Id: "1", Name: "Laptop", Price: 999.99, Category: "Electronics"}

func TestGetReturnsSameStore(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := NewRegistry()
	defer r.Close()

	a := r.Get(context.Background(), "a")
	assert.Same(t, a, r.Get(context.Background(), "a"))
	assert.NotSame(t, a, r.Get(context.Background(), "b"))
	assert.Equal(t, 2, r.Len())
}

func TestNewSessionsUseStoreOptions(t *testing.T) {
	r := NewRegistry(WithTTL(0), WithStoreOptions(store.WithTheme(types.ThemeDark)))
	defer r.Close()

	assert.Equal(t, types.ThemeDark, r.Get(context.Background(), "a").Snapshot().Theme())
}

func TestSweepDropsIdleSessions(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(WithTTL(time.Minute), WithSweepInterval(time.Hour), withClock(c.Now))
	defer r.Close()

	r.Get(context.Background(), "idle")
	c.Advance(45 * time.Second)
	r.Get(context.Background(), "busy")
	c.Advance(30 * time.Second)

	assert.Equal(t, 1, r.sweep())
	assert.Equal(t, 1, r.Len())

	busy := r.Get(context.Background(), "busy")
	busy.AddToCart(laptop)
	assert.Equal(t, 1, r.Get(context.Background(), "busy").Snapshot().CartLen())
}

func TestMirrorSavesAndRestores(t *testing.T) {
	m := newMemoryMirror()
	first := NewRegistry(WithTTL(0), WithMirror(m))
	defer first.Close()

	s := first.Get(context.Background(), "a")
	s.AddToCart(laptop)
	s.AddToCart(laptop)
	s.ClearFavorites()
	assert.Equal(t, 2, m.saves)

	second := NewRegistry(WithTTL(0), WithMirror(m))
	defer second.Close()
	restored := second.Get(context.Background(), "a").Snapshot()
	entry, ok := restored.CartEntry("1")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Quantity)
	assert.Equal(t, uint64(2), restored.Version())
}

func TestMirrorFailureStartsFresh(t *testing.T) {
	m := newMemoryMirror()
	m.failing = true
	r := NewRegistry(WithTTL(0), WithMirror(m))
	defer r.Close()

	assert.Equal(t, uint64(0), r.Get(context.Background(), "a").Snapshot().Version())
}

func TestRemoveDeletesMirror(t *testing.T) {
	m := newMemoryMirror()
	r := NewRegistry(WithTTL(0), WithMirror(m))
	defer r.Close()

	old := r.Get(context.Background(), "a")
	old.ToggleTheme()
	require.NoError(t, r.Remove(context.Background(), "a"))
	assert.Equal(t, 0, r.Len())
	_, found, _ := m.Load(context.Background(), "a")
	assert.False(t, found)

	old.ToggleTheme()
	_, found, _ = m.Load(context.Background(), "a")
	assert.False(t, found, "removed store must no longer mirror")
}

type blockingMirror struct {
	started chan struct{}
	release chan struct{}
}

func (m *blockingMirror) Load(ctx context.Context, id string) (store.Snapshot, bool, error) {
	return store.Snapshot{}, false, nil
}

func (m *blockingMirror) Save(ctx context.Context, id string, s store.Snapshot) error {
	close(m.started)
	<-m.release
	return nil
}

func (m *blockingMirror) Delete(ctx context.Context, id string) error {
	return nil
}

func TestSweepDoesNotBlockOnSlowSave(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := &blockingMirror{started: make(chan struct{}), release: make(chan struct{})}
	r := NewRegistry(WithTTL(time.Minute), WithSweepInterval(time.Hour), withClock(c.Now), WithMirror(m))
	defer r.Close()

	s := r.Get(context.Background(), "slow")
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		s.ToggleTheme()
	}()
	<-m.started
	c.Advance(2 * time.Minute)

	swept := make(chan int, 1)
	go func() {
		swept <- r.sweep()
	}()
	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	got := make(chan *store.Store, 1)
	go func() {
		got <- r.Get(context.Background(), "other")
	}()
	select {
	case other := <-got:
		assert.NotNil(t, other)
	case <-time.After(time.Second):
		t.Fatal("registry stayed locked while a save was running")
	}

	close(m.release)
	<-dispatched
	assert.Equal(t, 1, <-swept)
	assert.Equal(t, 1, r.Len())
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "shelf:session:abc", sessionKey("abc"))
}
