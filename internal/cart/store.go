// Package cart holds the per-session shopping cart and its derived totals.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const storeName = "cart"

// Params wires a Store.
type Params struct {
	KV       storage.KV
	Pricing  Pricing
	Notifier notifications.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

// Store owns the cart line items for one session. Every mutation is persisted.
type Store struct {
	mu       sync.Mutex
	slot     *storage.Slot[[]LineItem]
	pricing  Pricing
	notifier notifications.Notifier
	metrics  *metrics.StorefrontMetrics
	items    []LineItem
}

// NewStore loads persisted items once. Unreadable state starts an empty cart.
func NewStore(ctx context.Context, params Params) *Store {
	slot := storage.NewSlot[[]LineItem](storage.SlotParams{
		KV:      params.KV,
		Key:     storage.KeyCartItems,
		Store:   storeName,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	pricing := params.Pricing
	if pricing.TaxRate.IsZero() && pricing.FreeShippingThreshold == 0 && pricing.ShippingFee == 0 {
		pricing = DefaultPricing()
	}
	return &Store{
		slot:     slot,
		pricing:  pricing,
		notifier: notifications.OrNop(params.Notifier),
		metrics:  params.Metrics,
		items:    sanitize(slot.Load(ctx)),
	}
}

// sanitize drops persisted entries that could not have been produced by the store.
func sanitize(items []LineItem) []LineItem {
	seen := map[int]struct{}{}
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID == 0 || item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.Product.ID]; dup {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// clampQuantity keeps q at least 1 and at most stock when stock is known.
func clampQuantity(q, stock int) int {
	if q < 1 {
		q = 1
	}
	if stock > 0 && q > stock {
		q = stock
	}
	return q
}

// Add merges qty of product into the cart, appending a new line when absent.
func (s *Store) Add(ctx context.Context, product catalog.Product, qty int) []LineItem {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, found := lo.FindIndexOf(s.items, func(item LineItem) bool {
		return item.Product.ID == product.ID
	})
	if found {
		current := s.items[idx]
		current.Quantity = clampQuantity(current.Quantity+qty, product.Stock)
		s.items[idx] = current
	} else {
		s.items = append(s.items, LineItem{
			Product:  SnapshotOf(product),
			Quantity: clampQuantity(qty, product.Stock),
		})
	}
	s.persist(ctx, "add")
	s.notifier.Notify(ctx, notifications.Notification{
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s was added to your cart.", product.Name),
	})
	return s.snapshot()
}

// UpdateQuantity sets the quantity of an existing line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, found := lo.FindIndexOf(s.items, func(item LineItem) bool {
		return item.Product.ID == productID
	})
	if !found {
		return s.snapshot()
	}
	s.items[idx].Quantity = clampQuantity(quantity, s.items[idx].Product.Stock)
	s.persist(ctx, "update_quantity")
	return s.snapshot()
}

// Remove deletes the line for productID when present.
func (s *Store) Remove(ctx context.Context, productID int) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, found := lo.Find(s.items, func(item LineItem) bool {
		return item.Product.ID == productID
	})
	if !found {
		return s.snapshot()
	}
	s.items = lo.Filter(s.items, func(item LineItem, _ int) bool {
		return item.Product.ID != productID
	})
	s.persist(ctx, "remove")
	s.notifier.Notify(ctx, notifications.Notification{
		Title:       "Removed from cart",
		Description: fmt.Sprintf("%s was removed from your cart.", removed.Product.Name),
	})
	return s.snapshot()
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []LineItem{}
	s.persist(ctx, "clear")
}

// Consume subtracts purchased quantities and drops lines that reach zero.
// Items added after purchased was captured stay in the cart.
func (s *Store) Consume(ctx context.Context, purchased []LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bought := lo.SliceToMap(purchased, func(item LineItem) (int, int) {
		return item.Product.ID, item.Quantity
	})
	s.items = lo.FilterMap(s.items, func(item LineItem, _ int) (LineItem, bool) {
		item.Quantity -= bought[item.Product.ID]
		return item, item.Quantity > 0
	})
	s.persist(ctx, "consume")
}

func (s *Store) IsInCart(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.ContainsBy(s.items, func(item LineItem) bool {
		return item.Product.ID == productID
	})
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.items)
}

func (s *Store) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

// Tax is subtotal times the tax rate, rounded half up to whole units.
func (s *Store) Tax() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.tax(subtotal(s.items))
}

// Shipping is free for an empty cart or once the subtotal reaches the threshold.
func (s *Store) Shipping() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.shipping(subtotal(s.items))
}

func (s *Store) Total() int {
	return s.Summary().Total
}

// Summary computes every derived total from one consistent view of the items.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing.Summarize(s.snapshot())
}

// Summarize derives totals for items under this pricing policy.
func (p Pricing) Summarize(items []LineItem) Summary {
	sub := subtotal(items)
	tax := p.tax(sub)
	ship := p.shipping(sub)
	return Summary{
		Items:     items,
		ItemCount: itemCount(items),
		Subtotal:  sub,
		Tax:       tax,
		Shipping:  ship,
		Total:     sub + tax + ship,
	}
}

func (p Pricing) tax(sub int) int {
	return int(decimal.NewFromInt(int64(sub)).Mul(p.TaxRate).Round(0).IntPart())
}

func (p Pricing) shipping(sub int) int {
	if sub == 0 || sub >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

func subtotal(items []LineItem) int {
	return lo.SumBy(items, func(item LineItem) int { return item.LineTotal() })
}

func itemCount(items []LineItem) int {
	return lo.SumBy(items, func(item LineItem) int { return item.Quantity })
}

func (s *Store) snapshot() []LineItem {
	return append([]LineItem{}, s.items...)
}

func (s *Store) persist(ctx context.Context, op string) {
	s.metrics.IncMutation(storeName, op)
	_ = s.slot.Save(ctx, s.items)
}
