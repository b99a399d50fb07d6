package session

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskshelf_sessions_active",
		Help: "The number of sessions held in memory",
	})
	createdSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskshelf_sessions_created_total",
		Help: "The total number of sessions created",
	})
)

const (
	DefaultTTL  = 2 * time.Hour
	saveTimeout = 2 * time.Second
)

type entry struct {
	store       *store.Store
	lastSeen    time.Time
	unsubscribe func()
}

// Registry holds one store per browser session. Sessions not touched for
// the ttl are dropped by a background janitor.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	ttl       time.Duration
	interval  time.Duration
	mirror    Mirror
	storeOpts []store.Option
	now       func() time.Time

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type Option func(*Registry)

// WithTTL sets the idle time after which a session is dropped. Zero keeps
// sessions forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

func WithSweepInterval(interval time.Duration) Option {
	return func(r *Registry) {
		r.interval = interval
	}
}

func WithMirror(m Mirror) Option {
	return func(r *Registry) {
		r.mirror = m
	}
}

// WithStoreOptions sets the options every new session store starts from.
func WithStoreOptions(opts ...store.Option) Option {
	return func(r *Registry) {
		r.storeOpts = opts
	}
}

func withClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		ttl:      DefaultTTL,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		r.interval = min(max(r.ttl/4, time.Second), time.Minute)
	}
	if r.ttl > 0 {
		go r.janitor()
	} else {
		close(r.stopped)
	}
	return r
}

func (r *Registry) touch(id string) *store.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.store
	}
	return nil
}

// Get returns the store of the session, creating it when missing. A new
// store starts from the mirrored snapshot if there is one.
func (r *Registry) Get(ctx context.Context, id string) *store.Store {
	if s := r.touch(id); s != nil {
		return s
	}

	opts := r.storeOpts
	if r.mirror != nil {
		snapshot, found, err := r.mirror.Load(ctx, id)
		if err != nil {
			log.WithField("session", id).Warnf("Unable to load mirrored session: %v", err)
		} else if found {
			opts = []store.Option{store.WithSnapshot(snapshot)}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.store
	}
	s := store.NewStore(opts...)
	e := &entry{store: s, lastSeen: r.now()}
	if r.mirror != nil {
		e.unsubscribe = s.Subscribe(r.saver(id))
	}
	r.sessions[id] = e
	createdSessions.Inc()
	activeSessions.Set(float64(len(r.sessions)))
	return s
}

func (r *Registry) saver(id string) store.Listener {
	return func(prev, next store.Snapshot, action store.Action) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := r.mirror.Save(ctx, id, next); err != nil {
			log.WithFields(log.Fields{
				"session": id,
				"action":  action.Type(),
			}).Errorf("Unable to mirror session: %v", err)
		}
	}
}

// Remove forgets the session here and in the mirror.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	var unsubscribe func()
	if e, ok := r.sessions[id]; ok {
		unsubscribe = r.drop(id, e)
	}
	r.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	if r.mirror != nil {
		return r.mirror.Delete(ctx, id)
	}
	return nil
}

// drop forgets the entry and returns its unsubscribe, which must be called
// after r.mu is released since it waits for a running mirror save.
func (r *Registry) drop(id string, e *entry) func() {
	delete(r.sessions, id)
	activeSessions.Set(float64(len(r.sessions)))
	return e.unsubscribe
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweep() int {
	r.mu.Lock()
	deadline := r.now().Add(-r.ttl)
	removed := 0
	var unsubscribes []func()
	for id, e := range r.sessions {
		if e.lastSeen.Before(deadline) {
			if unsubscribe := r.drop(id, e); unsubscribe != nil {
				unsubscribes = append(unsubscribes, unsubscribe)
			}
			removed++
		}
	}
	r.mu.Unlock()
	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
	return removed
}

func (r *Registry) janitor() {
	defer close(r.stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			if removed := r.sweep(); removed > 0 {
				log.Debugf("Expired %d sessions", removed)
			}
		}
	}
}

// Close stops the janitor. Stores already handed out keep working.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	<-r.stopped
}
