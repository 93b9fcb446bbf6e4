package browse

import (
	"regexp"
	"strings"

	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	DefaultBrowseCap     = 180
	DefaultFallbackLimit = 24
	HomeRailLimit        = 12
	DealsPageLimit       = 20
)

// Intent is the merchandising theme a search query asks for.
type Intent string

const (
	IntentGeneral  Intent = "general"
	IntentDeals    Intent = "deals"
	IntentTrending Intent = "trending"
	IntentWishlist Intent = "wishlist"
)

var (
	dealsQueryRe    = regexp.MustCompile(`deal|discount|offer|sale|flash`)
	trendingQueryRe = regexp.MustCompile(`trending|popular|hot`)
	wishlistQueryRe = regexp.MustCompile(`wishlist|saved|liked|favorite|favourite`)
)

// ServiceParams groups dependencies for the browse service.
type ServiceParams struct {
	Catalog       *catalog.Store
	Index         *search.Index
	Metrics       *metrics.StorefrontMetrics
	BrowseCap     int
	FallbackLimit int
}

// Service composes category, search and home listings.
type Service interface {
	CategoryPage(slug string, filters FilterState, sortKey enums.SortKey) (CategoryPage, bool)
	SearchPage(query string, filters FilterState, sortKey enums.SortKey, wishlist []catalog.Product) SearchPage
	HomePage(mode enums.ShoppingMode, wishlist, viewed []catalog.Product) HomePage
	DealsPage(filters FilterState, sortKey enums.SortKey) DealsPage
}

// CategoryPage is one category listing after filters and sort.
type CategoryPage struct {
	Category catalog.Category  `json:"category"`
	Facets   Facets            `json:"facets"`
	Chips    []Chip            `json:"chips"`
	Sort     enums.SortKey     `json:"sort"`
	Products []catalog.Product `json:"products"`
}

// SearchPage is the search listing. When nothing matched, Products holds the fallback set
// and NoExactResults is set.
type SearchPage struct {
	Query             string            `json:"query"`
	Intent            Intent            `json:"intent"`
	Facets            Facets            `json:"facets"`
	Chips             []Chip            `json:"chips"`
	Sort              enums.SortKey     `json:"sort"`
	Products          []catalog.Product `json:"products"`
	NoExactResults    bool              `json:"no_exact_results"`
	RescueSuggestions []string          `json:"rescue_suggestions,omitempty"`
	DidYouMean        mo.Option[string] `json:"did_you_mean"`
}

// Deal is a flash-sale entry. SoldPercent is a stable per-product display figure.
type Deal struct {
	catalog.Product
	DiscountPercent int `json:"discount_percent"`
	SoldPercent     int `json:"sold_percent"`
}

// DealsPage lists the deepest discounts after filters and sort.
type DealsPage struct {
	Facets Facets        `json:"facets"`
	Chips  []Chip        `json:"chips"`
	Sort   enums.SortKey `json:"sort"`
	Deals  []Deal        `json:"deals"`
}

// HomeRail is one product strip on the home page.
type HomeRail struct {
	Key         string            `json:"key"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Products    []catalog.Product `json:"products"`
}

// HomePage is the mode-filtered set of home rails.
type HomePage struct {
	Mode         enums.ShoppingMode `json:"mode"`
	Rails        []HomeRail         `json:"rails"`
	TotalCount   int                `json:"total_count"`
	VisibleCount int                `json:"visible_count"`
}

type service struct {
	catalog       *catalog.Store
	index         *search.Index
	metrics       *metrics.StorefrontMetrics
	browseCap     int
	fallbackLimit int
}

// NewService builds a browse service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Index == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search index is required")
	}
	return &service{
		catalog:       params.Catalog,
		index:         params.Index,
		metrics:       params.Metrics,
		browseCap:     lo.Ternary(params.BrowseCap > 0, params.BrowseCap, DefaultBrowseCap),
		fallbackLimit: lo.Ternary(params.FallbackLimit > 0, params.FallbackLimit, DefaultFallbackLimit),
	}, nil
}

// CategoryPage filters and sorts a category. Facets describe the whole category so that
// picking one brand keeps the others selectable.
func (s *service) CategoryPage(slug string, filters FilterState, sortKey enums.SortKey) (CategoryPage, bool) {
	category, ok := s.catalog.FindCategory(slug)
	if !ok {
		return CategoryPage{}, false
	}
	base := s.catalog.ProductsInCategory(slug)

	present := lo.Uniq(lo.Map(base, func(p catalog.Product, _ int) string { return p.Subcategory }))
	facets := Facets{
		Brands: s.catalog.BrandsForCategory(slug),
		Subcategories: lo.Filter(category.Subcategories, func(sub string, _ int) bool {
			return lo.Contains(present, sub)
		}),
		PriceRange: s.catalog.PriceRangeForCategory(slug),
	}

	return CategoryPage{
		Category: category,
		Facets:   facets,
		Chips:    ActiveChips(filters, facets.PriceRange),
		Sort:     sortKey,
		Products: ApplySort(ApplyFilters(base, filters), sortKey),
	}, true
}

// DealsPage filters and sorts the top discounted products. Facets describe the
// whole deal set.
func (s *service) DealsPage(filters FilterState, sortKey enums.SortKey) DealsPage {
	base := s.catalog.Deals(DealsPageLimit)
	facets := DerivedFacets(base)
	return DealsPage{
		Facets: facets,
		Chips:  ActiveChips(filters, facets.PriceRange),
		Sort:   sortKey,
		Deals: lo.Map(ApplySort(ApplyFilters(base, filters), sortKey), func(p catalog.Product, _ int) Deal {
			return Deal{
				Product:         p,
				DiscountPercent: catalog.DiscountPercent(p.Price, p.DiscountPrice),
				SoldPercent:     30 + p.ID%63,
			}
		}),
	}
}

// ClassifyQuery maps a query onto a merchandising intent. Deals win over trending,
// trending over wishlist.
func ClassifyQuery(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case q == "":
		return IntentGeneral
	case dealsQueryRe.MatchString(q):
		return IntentDeals
	case trendingQueryRe.MatchString(q):
		return IntentTrending
	case wishlistQueryRe.MatchString(q):
		return IntentWishlist
	default:
		return IntentGeneral
	}
}

// RescueSuggestions are the follow-up search terms offered when nothing matched.
func RescueSuggestions(query string) []string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "deal") || strings.Contains(q, "offer") || strings.Contains(q, "discount"):
		return []string{"deals", "flash sale", "best sellers"}
	case strings.Contains(q, "trend") || strings.Contains(q, "popular"):
		return []string{"trending", "top rated", "new arrivals"}
	case strings.Contains(q, "wish"):
		return []string{"wishlist", "saved items", "best sellers"}
	default:
		return []string{"mobile phones", "laptops", "headphones", "fashion"}
	}
}

// SearchPage builds the search listing. The base set is the capped catalog for an empty
// query, the wishlist for wishlist-style queries, and text matches otherwise.
func (s *service) SearchPage(query string, filters FilterState, sortKey enums.SortKey, wishlist []catalog.Product) SearchPage {
	query = strings.TrimSpace(query)
	lower := strings.ToLower(query)
	isWishlist := wishlistQueryRe.MatchString(lower)

	var base []catalog.Product
	switch {
	case query == "":
		base = lo.Slice(s.catalog.All(), 0, s.browseCap)
	case isWishlist:
		base = lo.Ternary(len(wishlist) > 0, wishlist, s.catalog.BestSellers(s.browseCap))
	default:
		base = s.index.Search(query)
	}

	facets := DerivedFacets(base)
	page := SearchPage{
		Query:      query,
		Intent:     ClassifyQuery(query),
		Facets:     facets,
		Chips:      ActiveChips(filters, facets.PriceRange),
		Sort:       sortKey,
		Products:   ApplySort(ApplyFilters(base, filters), sortKey),
		DidYouMean: mo.None[string](),
	}

	s.metrics.IncSearch("page")
	if len(page.Products) > 0 {
		return page
	}

	page.NoExactResults = true
	page.Products = s.fallback(lower, wishlist)
	page.RescueSuggestions = RescueSuggestions(query)
	if query != "" {
		page.DidYouMean = s.index.DidYouMean(query, false)
		s.metrics.IncZeroResult("page")
	}
	return page
}

func (s *service) fallback(query string, wishlist []catalog.Product) []catalog.Product {
	switch {
	case dealsQueryRe.MatchString(query):
		return s.catalog.Deals(s.fallbackLimit)
	case trendingQueryRe.MatchString(query):
		return s.catalog.Trending(s.fallbackLimit)
	case wishlistQueryRe.MatchString(query):
		if len(wishlist) > 0 {
			return lo.Slice(wishlist, 0, s.fallbackLimit)
		}
		return s.catalog.BestSellers(s.fallbackLimit)
	default:
		return s.catalog.Trending(s.fallbackLimit)
	}
}

// HomePage assembles the home rails narrowed by the shopping mode.
func (s *service) HomePage(mode enums.ShoppingMode, wishlist, viewed []catalog.Product) HomePage {
	bestSellers := s.catalog.BestSellers(HomeRailLimit)
	trending := s.catalog.Trending(HomeRailLimit)
	deals := s.catalog.Deals(HomeRailLimit)

	rails := []HomeRail{
		{
			Key:         "best_sellers",
			Title:       "Best Sellers",
			Description: catalog.ShoppingModeDescription(mode, "Most loved products customers keep coming back for."),
			Products:    catalog.ApplyShoppingMode(bestSellers, mode),
		},
		{
			Key:         "trending",
			Title:       "Trending Right Now",
			Description: catalog.ShoppingModeDescription(mode, "Hot picks based on ratings, reviews and demand."),
			Products:    catalog.ApplyShoppingMode(trending, mode),
		},
		{
			Key:         "deals",
			Title:       "Deals of the Day",
			Description: "Limited-time offers with high-value savings.",
			Products:    catalog.ApplyShoppingMode(deals, mode),
		},
	}
	visible := lo.SumBy(rails, func(r HomeRail) int { return len(r.Products) })

	if len(wishlist) > 0 {
		rails = append(rails, HomeRail{
			Key:         "wishlist",
			Title:       "From Your Wishlist",
			Description: "Your saved products in one place. Open wishlist to manage all.",
			Products:    catalog.ApplyShoppingMode(lo.Slice(wishlist, 0, HomeRailLimit), mode),
		})
	}
	if len(viewed) > 0 {
		rails = append(rails, HomeRail{
			Key:         "recently_viewed",
			Title:       "Recently Viewed",
			Description: "Pick up where you left off.",
			Products:    catalog.ApplyShoppingMode(lo.Slice(viewed, 0, HomeRailLimit), mode),
		})
	}

	return HomePage{
		Mode:         mode,
		Rails:        rails,
		TotalCount:   len(bestSellers) + len(trending) + len(deals),
		VisibleCount: visible,
	}
}
