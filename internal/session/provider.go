// Package session builds and caches the stores that belong to one shopper session.
package session

import (
	"container/list"
	"context"
	"io"
	"sync"
	"time"

	"github.com/angelmondragon/nexora-storefront/internal/cart"
	"github.com/angelmondragon/nexora-storefront/internal/history"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/internal/preferences"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	"github.com/angelmondragon/nexora-storefront/internal/wishlist"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
	"go.uber.org/multierr"
)

const (
	// DefaultMaxCached bounds the number of sessions kept in memory.
	DefaultMaxCached = 10000
	// DefaultMinIdle keeps a session cached at least this long after its last use.
	DefaultMinIdle = time.Minute
)

// Stores is the set of stores owned by one session.
type Stores struct {
	ID          string
	Cart        *cart.Store
	Wishlist    *wishlist.Store
	Recent      *search.RecentSearches
	Viewed      *history.Tracker
	Preferences *preferences.Store
}

type Params struct {
	Backend   storage.Backend
	Pricing   cart.Pricing
	Notifier  notifications.Notifier
	Logger    *logger.Logger
	Metrics   *metrics.StorefrontMetrics
	MaxCached int
	// MinIdle shields recently used sessions from eviction, so a request still
	// holding its Stores never races a rebuilt copy.
	MinIdle time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Closers are released by Close after the backend.
	Closers []io.Closer
}

// Provider hands out one Stores per session id, loading persisted state on first
// use. Past MaxCached, least recently used sessions idle for at least MinIdle are
// dropped; their state stays in the backend and is reloaded on the next request.
// The cache may exceed MaxCached while every session is busy.
type Provider struct {
	mu      sync.Mutex
	params  Params
	logg    *logger.Logger
	entries map[string]*list.Element
	order   *list.List
}

func NewProvider(params Params) *Provider {
	if params.Backend == nil {
		params.Backend = storage.NewMemoryBackend()
	}
	if params.MaxCached <= 0 {
		params.MaxCached = DefaultMaxCached
	}
	if params.MinIdle <= 0 {
		params.MinIdle = DefaultMinIdle
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	params.Logger = logg
	return &Provider{
		params:  params,
		logg:    logg,
		entries: map[string]*list.Element{},
		order:   list.New(),
	}
}

// Get returns the stores for sessionID, building them on first use.
func (p *Provider) Get(ctx context.Context, sessionID string) *Stores {
	id := storage.NormalizeSessionID(sessionID)

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.params.Now()
	if el, ok := p.entries[id]; ok {
		p.order.MoveToFront(el)
		cached := el.Value.(*cachedStores)
		cached.lastUsed = now
		return cached.stores
	}

	stores := p.build(ctx, id)
	p.entries[id] = p.order.PushFront(&cachedStores{stores: stores, lastUsed: now})
	p.evict(now)
	return stores
}

type cachedStores struct {
	stores   *Stores
	lastUsed time.Time
}

func (p *Provider) evict(now time.Time) {
	for p.order.Len() > p.params.MaxCached {
		oldest := p.order.Back()
		cached := oldest.Value.(*cachedStores)
		if now.Sub(cached.lastUsed) < p.params.MinIdle {
			return
		}
		p.order.Remove(oldest)
		delete(p.entries, cached.stores.ID)
	}
}

// Forget drops the cached stores for sessionID.
func (p *Provider) Forget(sessionID string) {
	id := storage.NormalizeSessionID(sessionID)
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.entries[id]; ok {
		p.order.Remove(el)
		delete(p.entries, id)
	}
}

// Cached reports how many sessions are held in memory.
func (p *Provider) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order.Len()
}

// KV returns the raw session-scoped key-value view for sessionID.
func (p *Provider) KV(sessionID string) storage.KV {
	return p.params.Backend.Session(storage.NormalizeSessionID(sessionID))
}

// Ping checks the persistence backend.
func (p *Provider) Ping(ctx context.Context) error {
	return p.params.Backend.Ping(ctx)
}

// BackendName names the persistence backend in health output.
func (p *Provider) BackendName() string {
	return p.params.Backend.Name()
}

// Close releases the backend and any extra closers, combining their errors.
func (p *Provider) Close() error {
	var err error
	if closer, ok := p.params.Backend.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	for _, c := range p.params.Closers {
		if c != nil {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}

func (p *Provider) build(ctx context.Context, id string) *Stores {
	kv := p.params.Backend.Session(id)
	ctx = p.logg.WithSessionID(ctx, id)
	p.logg.Debug(ctx, "loading session stores")

	return &Stores{
		ID: id,
		Cart: cart.NewStore(ctx, cart.Params{
			KV:       kv,
			Pricing:  p.params.Pricing,
			Notifier: p.params.Notifier,
			Logger:   p.logg,
			Metrics:  p.params.Metrics,
		}),
		Wishlist: wishlist.NewStore(ctx, wishlist.Params{
			KV:       kv,
			Notifier: p.params.Notifier,
			Logger:   p.logg,
			Metrics:  p.params.Metrics,
		}),
		Recent: search.NewRecentSearches(ctx, search.RecentParams{
			KV:      kv,
			Logger:  p.logg,
			Metrics: p.params.Metrics,
		}),
		Viewed: history.NewTracker(ctx, history.Params{
			KV:      kv,
			Logger:  p.logg,
			Metrics: p.params.Metrics,
		}),
		Preferences: preferences.NewStore(ctx, preferences.Params{
			KV:      kv,
			Logger:  p.logg,
			Metrics: p.params.Metrics,
		}),
	}
}
