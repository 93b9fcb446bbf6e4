package search

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
	"github.com/samber/lo"
)

// RecentCap bounds the persisted recent-search list.
const RecentCap = 4

// RecentParams wires a RecentSearches store.
type RecentParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// RecentSearches is the per-session most-recent-first list of committed search terms.
type RecentSearches struct {
	mu      sync.Mutex
	slot    *storage.Slot[[]string]
	metrics *metrics.StorefrontMetrics
	terms   []string
}

// NewRecentSearches loads the persisted list once.
func NewRecentSearches(ctx context.Context, params RecentParams) *RecentSearches {
	slot := storage.NewSlot[[]string](storage.SlotParams{
		KV:      params.KV,
		Key:     storage.KeyRecentSearches,
		Store:   "recent_searches",
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	terms := lo.Filter(slot.Load(ctx), func(term string, _ int) bool {
		return strings.TrimSpace(term) != ""
	})
	return &RecentSearches{
		slot:    slot,
		metrics: params.Metrics,
		terms:   lo.Slice(terms, 0, RecentCap),
	}
}

// Record trims term and pushes it to the front, dropping an exact duplicate.
// Case is kept as typed. Blank terms are ignored.
func (r *RecentSearches) Record(ctx context.Context, term string) []string {
	term = strings.TrimSpace(term)
	r.mu.Lock()
	defer r.mu.Unlock()
	if term == "" {
		return append([]string{}, r.terms...)
	}
	next := append([]string{term}, lo.Without(r.terms, term)...)
	r.terms = lo.Slice(next, 0, RecentCap)
	r.metrics.IncMutation("recent_searches", "record")
	_ = r.slot.Save(ctx, r.terms)
	return append([]string{}, r.terms...)
}

// Terms returns the list, most recent first.
func (r *RecentSearches) Terms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.terms...)
}

// Clear empties the list.
func (r *RecentSearches) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = []string{}
	r.metrics.IncMutation("recent_searches", "clear")
	_ = r.slot.Save(ctx, r.terms)
}
