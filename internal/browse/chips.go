package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ChipKind identifies which filter a chip removes.
type ChipKind string

const (
	ChipBrand       ChipKind = "brand"
	ChipSubcategory ChipKind = "subcategory"
	ChipRating      ChipKind = "rating"
	ChipPrice       ChipKind = "price"
)

// Chip is one removable applied-filter pill.
type Chip struct {
	ID    string   `json:"id"`
	Kind  ChipKind `json:"kind"`
	Value string   `json:"value,omitempty"`
	Label string   `json:"label"`
}

// ActiveChips lists applied filters in sidebar order. An open-ended price bound is
// labelled with the facet bound.
func ActiveChips(f FilterState, bounds catalog.PriceRange) []Chip {
	chips := []Chip{}
	for _, brand := range f.Brands {
		chips = append(chips, Chip{ID: "brand-" + brand, Kind: ChipBrand, Value: brand, Label: brand})
	}
	for _, sub := range f.Subcategories {
		chips = append(chips, Chip{ID: "subcategory-" + sub, Kind: ChipSubcategory, Value: sub, Label: sub})
	}
	if rating, ok := f.MinRating.Get(); ok {
		value := strconv.FormatFloat(rating, 'f', -1, 64)
		chips = append(chips, Chip{ID: "rating-" + value, Kind: ChipRating, Value: value, Label: value + " stars & up"})
	}
	if f.MinPrice.IsPresent() || f.MaxPrice.IsPresent() {
		low := f.MinPrice.OrElse(bounds.Min)
		high := f.MaxPrice.OrElse(bounds.Max)
		chips = append(chips, Chip{
			ID:    "price-range",
			Kind:  ChipPrice,
			Label: fmt.Sprintf("%s - %s", FormatRupees(low), FormatRupees(high)),
		})
	}
	return chips
}

// RemoveChip returns f without the filter the chip represents.
func RemoveChip(f FilterState, chip Chip) FilterState {
	next := f
	switch chip.Kind {
	case ChipBrand:
		next.Brands = lo.Without(f.Brands, chip.Value)
	case ChipSubcategory:
		next.Subcategories = lo.Without(f.Subcategories, chip.Value)
	case ChipRating:
		next.MinRating = mo.None[float64]()
	case ChipPrice:
		next.MinPrice = mo.None[int]()
		next.MaxPrice = mo.None[int]()
	}
	return next
}

// FormatRupees renders an amount with Indian digit grouping, e.g. ₹1,23,456.
func FormatRupees(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
