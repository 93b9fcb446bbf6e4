// Package browse filters, sorts and composes product listings for category and search pages.
package browse

import (
	"sort"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// FilterState is the sidebar selection. Empty sets and absent bounds do not constrain.
type FilterState struct {
	Brands        []string
	Subcategories []string
	MinPrice      mo.Option[int]
	MaxPrice      mo.Option[int]
	MinRating     mo.Option[float64]
}

// IsEmpty reports whether no constraint is set.
func (f FilterState) IsEmpty() bool {
	return len(f.Brands) == 0 &&
		len(f.Subcategories) == 0 &&
		f.MinPrice.IsAbsent() &&
		f.MaxPrice.IsAbsent() &&
		f.MinRating.IsAbsent()
}

// Matches applies every set constraint conjunctively.
func (f FilterState) Matches(p catalog.Product) bool {
	if len(f.Brands) > 0 && !lo.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Subcategories) > 0 && !lo.Contains(f.Subcategories, p.Subcategory) {
		return false
	}
	if v, ok := f.MinPrice.Get(); ok && p.DiscountPrice < v {
		return false
	}
	if v, ok := f.MaxPrice.Get(); ok && p.DiscountPrice > v {
		return false
	}
	if v, ok := f.MinRating.Get(); ok && p.RatingAvg < v {
		return false
	}
	return true
}

// ApplyFilters returns the products matching f, preserving order. An inverted price range
// simply matches nothing.
func ApplyFilters(products []catalog.Product, f FilterState) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// ApplySort returns a sorted copy. Ties break by id ascending; relevance and unknown keys
// keep the input order.
func ApplySort(products []catalog.Product, key enums.SortKey) []catalog.Product {
	out := append([]catalog.Product{}, products...)
	less := comparator(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := less(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}

func comparator(key enums.SortKey) func(a, b catalog.Product) int {
	switch key {
	case enums.SortNewest:
		return func(a, b catalog.Product) int { return compare(b.ID, a.ID) }
	case enums.SortPriceLow:
		return func(a, b catalog.Product) int { return compare(a.DiscountPrice, b.DiscountPrice) }
	case enums.SortPriceHigh:
		return func(a, b catalog.Product) int { return compare(b.DiscountPrice, a.DiscountPrice) }
	case enums.SortRating:
		return func(a, b catalog.Product) int { return compare(b.RatingAvg, a.RatingAvg) }
	case enums.SortDiscount:
		return func(a, b catalog.Product) int { return compare(b.DiscountFraction(), a.DiscountFraction()) }
	default:
		return nil
	}
}

func compare[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Facets are the sidebar options derived from a base result set.
type Facets struct {
	Brands        []string           `json:"brands"`
	Subcategories []string           `json:"subcategories"`
	PriceRange    catalog.PriceRange `json:"price_range"`
}

// DerivedFacets collects sorted distinct brands and subcategories plus the price bounds.
func DerivedFacets(products []catalog.Product) Facets {
	brands := lo.Uniq(lo.Map(products, func(p catalog.Product, _ int) string { return p.Brand }))
	subcategories := lo.Uniq(lo.Map(products, func(p catalog.Product, _ int) string { return p.Subcategory }))
	sort.Strings(brands)
	sort.Strings(subcategories)
	return Facets{
		Brands:        brands,
		Subcategories: subcategories,
		PriceRange:    catalog.PriceRangeOf(products),
	}
}
