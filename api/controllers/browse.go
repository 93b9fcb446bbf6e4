package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/browse"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/wishlist"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/pagination"
)

const maxQueryLen = 120

// listingQuery is the filter, sort and page state shared by category and search pages.
type listingQuery struct {
	filters browse.FilterState
	sort    enums.SortKey
	page    pagination.Params
}

func parseListingQuery(r *http.Request, defaultSort enums.SortKey) (listingQuery, error) {
	var q listingQuery
	var err error

	q.filters.Brands = validators.ParseQueryList(r, "brand")
	q.filters.Subcategories = validators.ParseQueryList(r, "subcategory")
	if q.filters.MinPrice, err = validators.ParseOptionalInt(r, "min_price"); err != nil {
		return q, err
	}
	if q.filters.MaxPrice, err = validators.ParseOptionalInt(r, "max_price"); err != nil {
		return q, err
	}
	if q.filters.MinRating, err = validators.ParseOptionalFloat(r, "min_rating"); err != nil {
		return q, err
	}

	q.sort = defaultSort
	if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
		// Unrecognized keys keep the base order.
		q.sort = enums.SortRelevance
		if sortKey, parseErr := enums.ParseSortKey(raw); parseErr == nil {
			q.sort = sortKey
		}
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return q, err
	}
	q.page = pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}
	return q, nil
}

func paginate(products []catalog.Product, params pagination.Params) (pagination.Page[catalog.Product], error) {
	page, err := pagination.Paginate(products, params)
	if err != nil {
		return page, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").WithDetails(map[string]any{"field": "cursor"})
	}
	return page, nil
}

type categoryPageResponse struct {
	Category catalog.Category                 `json:"category"`
	Facets   browse.Facets                    `json:"facets"`
	Chips    []browse.Chip                    `json:"chips"`
	Sort     enums.SortKey                    `json:"sort"`
	Products pagination.Page[catalog.Product] `json:"products"`
}

// CategoryList returns every category.
func CategoryList(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Categories())
	}
}

// CategoryDetail renders one category page with filters, sort and pagination applied.
func CategoryDetail(svc browse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "browse service unavailable"))
			return
		}
		q, err := parseListingQuery(r, enums.SortNewest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slug := chi.URLParam(r, "slug")
		result, ok := svc.CategoryPage(slug, q.filters, q.sort)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "category not found").WithDetails(map[string]string{"slug": slug}))
			return
		}
		page, err := paginate(result.Products, q.page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categoryPageResponse{
			Category: result.Category,
			Facets:   result.Facets,
			Chips:    result.Chips,
			Sort:     result.Sort,
			Products: page,
		})
	}
}

type dealsPageResponse struct {
	browse.DealsPage
	Deals pagination.Page[browse.Deal] `json:"deals"`
}

// DealsList renders the flash-sale listing, deepest discount first unless a sort is given.
func DealsList(svc browse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "browse service unavailable"))
			return
		}
		q, err := parseListingQuery(r, enums.SortDiscount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result := svc.DealsPage(q.filters, q.sort)
		page, err := pagination.Paginate(result.Deals, q.page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").WithDetails(map[string]any{"field": "cursor"}))
			return
		}
		responses.WriteSuccess(w, dealsPageResponse{DealsPage: result, Deals: page})
	}
}

type searchPageResponse struct {
	browse.SearchPage
	Products pagination.Page[catalog.Product] `json:"products"`
}

// SearchResults renders the search page for q. Wishlist-flavoured queries draw on
// the caller's saved products.
func SearchResults(svc browse.Service, store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "browse service unavailable"))
			return
		}
		q, err := parseListingQuery(r, enums.SortNewest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		saved := wishlist.Products(wishlist.Resolve(stores.Wishlist.Items(), store))

		result := svc.SearchPage(query, q.filters, q.sort, saved)
		page, err := paginate(result.Products, q.page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, searchPageResponse{SearchPage: result, Products: page})
	}
}

// HomeFeed renders the home page rails for the requested shopping mode.
func HomeFeed(svc browse.Service, store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "browse service unavailable"))
			return
		}
		mode := enums.ShoppingModeAll
		if raw := strings.TrimSpace(r.URL.Query().Get("mode")); raw != "" {
			parsed, err := enums.ParseShoppingMode(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode").WithDetails(map[string]any{"field": "mode"}))
				return
			}
			mode = parsed
		}
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved := wishlist.Products(wishlist.Resolve(stores.Wishlist.Items(), store))
		viewed := stores.Viewed.Products(store, 0, 0)
		responses.WriteSuccess(w, svc.HomePage(mode, saved, viewed))
	}
}
