package search

import (
	"strings"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Panel is the term list shown when the search box is empty.
type Panel struct {
	Recent   []string `json:"recent"`
	Trending []string `json:"trending"`
}

// Autocomplete is the dropdown content for one keystroke.
type Autocomplete struct {
	Query      string            `json:"query"`
	Products   []catalog.Product `json:"products"`
	DidYouMean mo.Option[string] `json:"did_you_mean"`
	Panel      Panel             `json:"panel"`
}

// BlendPanel puts recent searches first and fills with trending terms not already shown.
func BlendPanel(recent, trending []string) Panel {
	recent = lo.Slice(recent, 0, DefaultPanelTermLimit)
	rest := lo.Filter(trending, func(term string, _ int) bool {
		return !lo.Contains(recent, term)
	})
	return Panel{
		Recent:   append([]string{}, recent...),
		Trending: append([]string{}, lo.Slice(rest, 0, DefaultPanelTermLimit)...),
	}
}

// Autocomplete returns product suggestions for a term, or the recent/trending panel when blank.
func (i *Index) Autocomplete(term string, recent []string) Autocomplete {
	result := Autocomplete{
		Query:      strings.TrimSpace(term),
		Products:   []catalog.Product{},
		DidYouMean: mo.None[string](),
	}
	if result.Query == "" {
		result.Panel = BlendPanel(recent, i.trending)
		return result
	}
	result.Products = i.Suggest(result.Query, i.suggestLimit)
	result.DidYouMean = i.DidYouMean(result.Query, len(result.Products) > 0)
	result.Panel = Panel{Recent: []string{}, Trending: []string{}}
	return result
}
