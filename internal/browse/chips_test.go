package browse

import (
	"testing"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/samber/mo"
)

func TestActiveChips(t *testing.T) {
	f := FilterState{
		Brands:        []string{"Dell", "HP"},
		Subcategories: []string{"Ultrabooks"},
		MinRating:     mo.Some(4.0),
		MaxPrice:      mo.Some(150000),
	}
	chips := ActiveChips(f, catalog.PriceRange{Min: 27599, Max: 142499})

	wantLabels := []string{"Dell", "HP", "Ultrabooks", "4 stars & up", "₹27,599 - ₹1,50,000"}
	if len(chips) != len(wantLabels) {
		t.Fatalf("expected %d chips, got %+v", len(wantLabels), chips)
	}
	for i, want := range wantLabels {
		if chips[i].Label != want {
			t.Fatalf("chip %d: expected %q, got %q", i, want, chips[i].Label)
		}
	}

	if got := ActiveChips(FilterState{}, catalog.FallbackPriceRange); len(got) != 0 {
		t.Fatalf("expected no chips, got %+v", got)
	}
}

func TestRemoveChip(t *testing.T) {
	f := FilterState{
		Brands:    []string{"Dell", "HP"},
		MinRating: mo.Some(4.5),
		MinPrice:  mo.Some(100),
	}
	chips := ActiveChips(f, catalog.FallbackPriceRange)

	next := RemoveChip(f, chips[0])
	if len(next.Brands) != 1 || next.Brands[0] != "HP" {
		t.Fatalf("expected Dell removed, got %v", next.Brands)
	}
	if len(f.Brands) != 2 {
		t.Fatal("RemoveChip must not mutate its input")
	}

	next = RemoveChip(next, chips[2])
	if next.MinRating.IsPresent() {
		t.Fatal("expected rating cleared")
	}
	next = RemoveChip(next, chips[3])
	if next.MinPrice.IsPresent() || next.MaxPrice.IsPresent() {
		t.Fatal("expected price bounds cleared")
	}
}

func TestFormatRupees(t *testing.T) {
	cases := map[int]string{
		0:        "₹0",
		999:      "₹999",
		1000:     "₹1,000",
		100000:   "₹1,00,000",
		12345678: "₹1,23,45,678",
		-2500:    "-₹2,500",
	}
	for in, want := range cases {
		if got := FormatRupees(in); got != want {
			t.Fatalf("FormatRupees(%d) = %q, want %q", in, got, want)
		}
	}
}
