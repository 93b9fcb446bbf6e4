package search

import (
	"context"
	"testing"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	categories := []catalog.Category{
		{ID: 1, Slug: "headphones-audio", Name: "Headphones & Audio"},
		{ID: 2, Slug: "laptops", Name: "Laptops"},
	}
	products := []catalog.Product{
		{ID: 1, Name: "Sony WH-1000XM5 Wireless Headphones", Brand: "Sony", CategorySlug: "headphones-audio", Subcategory: "Over-Ear Headphones", Price: 100, DiscountPrice: 90, Images: []string{"a"}},
		{ID: 2, Name: "Flip 6", Brand: "JBL", CategorySlug: "headphones-audio", Subcategory: "Speakers", Price: 100, DiscountPrice: 90, Images: []string{"a"}},
		{ID: 3, Name: "XPS 13", Brand: "Dell", CategorySlug: "laptops", Subcategory: "Ultrabooks", Price: 100, DiscountPrice: 90, Images: []string{"a"}},
		{ID: 4, Name: "Tune 760NC", Brand: "JBL", CategorySlug: "headphones-audio", Subcategory: "Over-Ear Headphones", Price: 100, DiscountPrice: 90, Images: []string{"a"}},
		{ID: 5, Name: "Victus Gaming Laptop", Brand: "HP", CategorySlug: "laptops", Subcategory: "Gaming Laptops", Price: 100, DiscountPrice: 90, Images: []string{"a"}},
	}
	store, err := catalog.New(categories, products)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewIndex(store, Options{})
}

func productIDs(products []catalog.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSuggestMatchesAnyFieldInCatalogOrder(t *testing.T) {
	idx := newTestIndex(t)

	got := productIDs(idx.Suggest("  HEADPHONES ", 10))
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("expected [1 4], got %v", got)
	}

	got = productIDs(idx.Suggest("jbl", 1))
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected limit to truncate to [2], got %v", got)
	}

	if len(idx.Suggest("   ", 6)) != 0 {
		t.Fatal("expected blank term to suggest nothing")
	}
}

func TestSearchIsUnbounded(t *testing.T) {
	idx := newTestIndex(t)
	got := productIDs(idx.Search("o"))
	if len(got) != 4 {
		t.Fatalf("expected every product containing 'o', got %v", got)
	}
	if len(idx.Search("")) != 0 {
		t.Fatal("expected empty search to return nothing")
	}
}

func TestDidYouMean(t *testing.T) {
	idx := newTestIndex(t)

	if got := idx.DidYouMean("laptpos", false); got.OrEmpty() != "laptops" {
		t.Fatalf("expected laptops, got %v", got)
	}
	if idx.DidYouMean("laptpos", true).IsPresent() {
		t.Fatal("expected no correction when results exist")
	}
	if idx.DidYouMean("jb", false).IsPresent() {
		t.Fatal("expected no correction for terms shorter than 3")
	}
	if got := idx.DidYouMean("Gaming Laptp", false); got.OrEmpty() != "gaming laptop" {
		t.Fatalf("expected trending term, got %v", got)
	}

	dict := idx.Dictionary()
	if dict[0] != "wireless headphones" || dict[4] != "headphones & audio" || dict[6] != "sony" {
		t.Fatalf("unexpected dictionary order %v", dict)
	}
}

func TestBlendPanel(t *testing.T) {
	panel := BlendPanel([]string{"gaming laptop", "iphone"}, DefaultTrendingTerms)
	if len(panel.Recent) != 2 || panel.Recent[0] != "gaming laptop" {
		t.Fatalf("unexpected recent %v", panel.Recent)
	}
	want := []string{"wireless headphones", "smart watch", "running shoes"}
	if len(panel.Trending) != len(want) {
		t.Fatalf("expected %v, got %v", want, panel.Trending)
	}
	for i := range want {
		if panel.Trending[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, panel.Trending)
		}
	}
}

func TestAutocomplete(t *testing.T) {
	idx := newTestIndex(t)

	empty := idx.Autocomplete("", []string{"dell"})
	if len(empty.Products) != 0 || len(empty.Panel.Recent) != 1 || len(empty.Panel.Trending) != 4 {
		t.Fatalf("unexpected empty-query autocomplete %+v", empty)
	}

	typed := idx.Autocomplete("sony", nil)
	if len(typed.Products) != 1 || typed.DidYouMean.IsPresent() {
		t.Fatalf("unexpected typed autocomplete %+v", typed)
	}

	miss := idx.Autocomplete("delll", nil)
	if len(miss.Products) != 0 || miss.DidYouMean.OrEmpty() != "dell" {
		t.Fatalf("expected dell correction, got %+v", miss)
	}
}

func TestRecentSearches(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	recent := NewRecentSearches(ctx, RecentParams{KV: kv})

	for _, term := range []string{"iphone", " Laptop ", "watch", "shoes", "camera"} {
		recent.Record(ctx, term)
	}
	got := recent.Terms()
	want := []string{"camera", "shoes", "watch", "Laptop"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	recent.Record(ctx, "watch")
	if got := recent.Terms(); got[0] != "watch" || len(got) != 4 || got[1] != "camera" {
		t.Fatalf("expected watch moved to front, got %v", got)
	}
	recent.Record(ctx, "WATCH")
	if got := recent.Terms(); got[0] != "WATCH" || got[1] != "watch" {
		t.Fatalf("expected case-sensitive de-dup, got %v", got)
	}
	recent.Record(ctx, "   ")
	if got := recent.Terms(); got[0] != "WATCH" {
		t.Fatalf("blank term should be ignored, got %v", got)
	}

	reloaded := NewRecentSearches(ctx, RecentParams{KV: kv})
	if got := reloaded.Terms(); len(got) != 4 || got[0] != "WATCH" {
		t.Fatalf("expected persisted terms, got %v", got)
	}

	reloaded.Clear(ctx)
	if len(NewRecentSearches(ctx, RecentParams{KV: kv}).Terms()) != 0 {
		t.Fatal("expected cleared terms to persist")
	}
}

func TestRecentSearchesIgnoresCorruptState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	if err := kv.Set(ctx, storage.KeyRecentSearches, "nope"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := NewRecentSearches(ctx, RecentParams{KV: kv}).Terms(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
