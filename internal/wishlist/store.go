// Package wishlist holds the per-session saved-for-later list.
package wishlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
	"github.com/samber/lo"
)

const storeName = "wishlist"

type Params struct {
	KV       storage.KV
	Notifier notifications.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
	// Now stamps SavedAt; defaults to time.Now.
	Now func() time.Time
}

// Store keeps wishlist entries newest first.
type Store struct {
	mu       sync.Mutex
	slot     *storage.Slot[[]Entry]
	notifier notifications.Notifier
	metrics  *metrics.StorefrontMetrics
	now      func() time.Time
	entries  []Entry
}

func NewStore(ctx context.Context, params Params) *Store {
	slot := storage.NewSlot[[]Entry](storage.SlotParams{
		KV:      params.KV,
		Key:     storage.KeyWishlistItems,
		Store:   storeName,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	now := params.Now
	if now == nil {
		now = time.Now
	}
	entries := lo.UniqBy(lo.Filter(slot.Load(ctx), func(e Entry, _ int) bool {
		return e.ID != 0
	}), func(e Entry) int { return e.ID })
	return &Store{
		slot:     slot,
		notifier: notifications.OrNop(params.Notifier),
		metrics:  params.Metrics,
		now:      now,
		entries:  entries,
	}
}

// Toggle saves product when absent and removes it when present. It reports
// whether the product is saved afterwards.
func (s *Store) Toggle(ctx context.Context, product catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contains(product.ID) {
		s.drop(product.ID)
		s.persist(ctx, "remove")
		s.notifyRemoved(ctx, product.Name)
		return false
	}
	s.entries = append([]Entry{entryOf(product, s.now())}, s.entries...)
	s.persist(ctx, "add")
	s.notifier.Notify(ctx, notifications.Notification{
		Title:       "Added to wishlist",
		Description: fmt.Sprintf("%s was saved for later.", product.Name),
	})
	return true
}

// Remove deletes the entry for productID when present.
func (s *Store) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, found := lo.Find(s.entries, func(e Entry) bool { return e.ID == productID })
	if !found {
		return
	}
	s.drop(productID)
	s.persist(ctx, "remove")
	s.notifyRemoved(ctx, entry.Name)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = []Entry{}
	s.persist(ctx, "clear")
}

func (s *Store) IsInWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contains(productID)
}

// Items returns the entries, most recently saved first.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.entries...)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) contains(id int) bool {
	return lo.ContainsBy(s.entries, func(e Entry) bool { return e.ID == id })
}

func (s *Store) drop(id int) {
	s.entries = lo.Filter(s.entries, func(e Entry, _ int) bool { return e.ID != id })
}

func (s *Store) notifyRemoved(ctx context.Context, name string) {
	s.notifier.Notify(ctx, notifications.Notification{
		Title:       "Removed from wishlist",
		Description: fmt.Sprintf("%s was removed from your wishlist.", name),
	})
}

func (s *Store) persist(ctx context.Context, op string) {
	s.metrics.IncMutation(storeName, op)
	_ = s.slot.Save(ctx, s.entries)
}
