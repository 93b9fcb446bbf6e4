// Package search answers typeahead, full-text and did-you-mean queries over the catalog.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	DefaultSuggestLimit   = 6
	DefaultMinDidYouMean  = 3
	DefaultPanelTermLimit = 4
)

// DefaultTrendingTerms is the curated list shown in the empty-query panel.
var DefaultTrendingTerms = []string{
	"wireless headphones",
	"gaming laptop",
	"smart watch",
	"running shoes",
}

// Options tunes an Index. Zero values fall back to the defaults above.
type Options struct {
	TrendingTerms    []string
	SuggestLimit     int
	MinDidYouMeanLen int
}

type entry struct {
	product     catalog.Product
	name        string
	brand       string
	subcategory string
}

// Index matches products by case-insensitive substring on name, brand and subcategory.
type Index struct {
	entries      []entry
	trending     []string
	dictionary   []string
	suggestLimit int
	minFuzzyLen  int
}

// NewIndex builds an index over the catalog in catalog order.
func NewIndex(store *catalog.Store, opts Options) *Index {
	trending := opts.TrendingTerms
	if len(trending) == 0 {
		trending = DefaultTrendingTerms
	}
	idx := &Index{
		trending:     append([]string(nil), trending...),
		suggestLimit: lo.Ternary(opts.SuggestLimit > 0, opts.SuggestLimit, DefaultSuggestLimit),
		minFuzzyLen:  lo.Ternary(opts.MinDidYouMeanLen > 0, opts.MinDidYouMeanLen, DefaultMinDidYouMean),
	}

	for _, p := range store.All() {
		idx.entries = append(idx.entries, entry{
			product:     p,
			name:        strings.ToLower(p.Name),
			brand:       strings.ToLower(p.Brand),
			subcategory: strings.ToLower(p.Subcategory),
		})
	}

	categoryNames := lo.Map(store.Categories(), func(c catalog.Category, _ int) string {
		return strings.ToLower(c.Name)
	})
	brands := lo.Map(store.Brands(), func(b string, _ int) string { return strings.ToLower(b) })
	idx.dictionary = lo.Uniq(append(append(append([]string{}, idx.trending...), categoryNames...), brands...))
	return idx
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func (e entry) matches(needle string) bool {
	return strings.Contains(e.name, needle) ||
		strings.Contains(e.brand, needle) ||
		strings.Contains(e.subcategory, needle)
}

// Suggest returns up to limit matching products in catalog order. Blank terms match nothing.
func (i *Index) Suggest(term string, limit int) []catalog.Product {
	needle := normalize(term)
	if needle == "" || limit <= 0 {
		return []catalog.Product{}
	}
	out := make([]catalog.Product, 0, min(limit, len(i.entries)))
	for _, e := range i.entries {
		if !e.matches(needle) {
			continue
		}
		out = append(out, e.product)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Search returns every matching product in catalog order.
func (i *Index) Search(term string) []catalog.Product {
	needle := normalize(term)
	if needle == "" {
		return []catalog.Product{}
	}
	out := []catalog.Product{}
	for _, e := range i.entries {
		if e.matches(needle) {
			out = append(out, e.product)
		}
	}
	return out
}

// DidYouMean proposes a dictionary correction when a term produced no results.
func (i *Index) DidYouMean(term string, hasResults bool) mo.Option[string] {
	needle := normalize(term)
	if hasResults || utf8.RuneCountInString(needle) < i.minFuzzyLen {
		return mo.None[string]()
	}
	return SuggestClosest(needle, i.dictionary)
}

// Dictionary returns the correction vocabulary: trending terms, category names, brands.
func (i *Index) Dictionary() []string {
	return append([]string(nil), i.dictionary...)
}

// Trending returns the curated trending terms.
func (i *Index) Trending() []string {
	return append([]string(nil), i.trending...)
}

// SuggestLimit is the dropdown size used by Autocomplete.
func (i *Index) SuggestLimit() int {
	return i.suggestLimit
}
