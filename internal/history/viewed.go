// Package history tracks the products a session viewed most recently.
package history

import (
	"context"
	"sync"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
	"github.com/samber/lo"
)

// ViewedCap bounds the recently viewed list.
const ViewedCap = 16

const storeName = "recently_viewed"

type Params struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Tracker is a capped, de-duplicated, most-recent-first list of product ids.
type Tracker struct {
	mu      sync.Mutex
	slot    *storage.Slot[[]int]
	metrics *metrics.StorefrontMetrics
	ids     []int
}

func NewTracker(ctx context.Context, params Params) *Tracker {
	slot := storage.NewSlot[[]int](storage.SlotParams{
		KV:      params.KV,
		Key:     storage.KeyRecentlyViewed,
		Store:   storeName,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	return &Tracker{
		slot:    slot,
		metrics: params.Metrics,
		ids:     lo.Slice(lo.Uniq(slot.Load(ctx)), 0, ViewedCap),
	}
}

// RecordView moves productID to the front of the list.
func (t *Tracker) RecordView(ctx context.Context, productID int) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := append([]int{productID}, lo.Without(t.ids, productID)...)
	t.ids = lo.Slice(next, 0, ViewedCap)
	t.metrics.IncMutation(storeName, "record")
	_ = t.slot.Save(ctx, t.ids)
	return append([]int{}, t.ids...)
}

// ReadViewed returns the ids, most recent first.
func (t *Tracker) ReadViewed() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int{}, t.ids...)
}

// ProductFinder is the catalog lookup Products needs.
type ProductFinder interface {
	FindByID(id int) (catalog.Product, bool)
}

// Products resolves viewed ids in order, skipping exclude and ids no longer in
// the catalog. A limit of zero or less returns every match.
func (t *Tracker) Products(products ProductFinder, exclude int, limit int) []catalog.Product {
	ids := t.ReadViewed()
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		p, ok := products.FindByID(id)
		if !ok {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
