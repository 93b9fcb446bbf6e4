package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

const (
	relatedLimit    = 8
	alsoBoughtLimit = 4
	sellerRailLimit = 12
)

type productDetailResponse struct {
	Product         catalog.Product   `json:"product"`
	Category        *catalog.Category `json:"category,omitempty"`
	Seller          *catalog.Seller   `json:"seller,omitempty"`
	DiscountPercent int               `json:"discount_percent"`
	InCart          bool              `json:"in_cart"`
	InWishlist      bool              `json:"in_wishlist"`
	Related         []catalog.Product `json:"related"`
	AlsoBought      []catalog.Product `json:"also_bought"`
	RecentlyViewed  []catalog.Product `json:"recently_viewed"`
}

// ProductDetail renders the product page and records the view for the session.
func ProductDetail(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		product, ok := store.FindBySlug(slug)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]string{"slug": slug}))
			return
		}
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := productDetailResponse{
			Product:         product,
			DiscountPercent: catalog.DiscountPercent(product.Price, product.DiscountPrice),
			InCart:          stores.Cart.IsInCart(product.ID),
			InWishlist:      stores.Wishlist.IsInWishlist(product.ID),
			Related:         store.Related(product, relatedLimit),
			AlsoBought:      store.AlsoBought(product, alsoBoughtLimit),
			// Earlier views only; the current product is excluded.
			RecentlyViewed: stores.Viewed.Products(store, product.ID, relatedLimit),
		}
		if category, found := store.FindCategory(product.CategorySlug); found {
			resp.Category = &category
		}
		if seller, found := store.SellerForBrand(product.Brand); found {
			resp.Seller = &seller
		}
		stores.Viewed.RecordView(r.Context(), product.ID)

		responses.WriteSuccess(w, resp)
	}
}

// ProductRelated lists products from the same category.
func ProductRelated(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		product, ok := store.FindBySlug(slug)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]string{"slug": slug}))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", relatedLimit, 1, 48)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.Related(product, limit))
	}
}

// SellerList returns the brand stores, most followed first.
func SellerList(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Sellers())
	}
}

type sellerDetailResponse struct {
	Seller      catalog.Seller    `json:"seller"`
	Products    []catalog.Product `json:"products"`
	TopRated    []catalog.Product `json:"top_rated"`
	BestSellers []catalog.Product `json:"best_sellers"`
}

// SellerDetail renders one brand store with its catalog.
func SellerDetail(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		seller, ok := store.SellerBySlug(slug)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found").WithDetails(map[string]string{"slug": slug}))
			return
		}
		products := store.ProductsBySeller(slug)
		responses.WriteSuccess(w, sellerDetailResponse{
			Seller:      seller,
			Products:    products,
			TopRated:    catalog.RankByRating(products, sellerRailLimit),
			BestSellers: catalog.RankByReviews(products, sellerRailLimit),
		})
	}
}
