package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/wishlist"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

type toggleWishlistRequest struct {
	ProductID int    `json:"productId" validate:"required_without=Slug"`
	Slug      string `json:"slug" validate:"required_without=ProductID"`
}

type wishlistResponse struct {
	Items []wishlist.Resolved `json:"items"`
	Count int                 `json:"count"`
}

type toggleWishlistResponse struct {
	ProductID int  `json:"productId"`
	Saved     bool `json:"saved"`
	Count     int  `json:"count"`
}

// WishlistFetch returns saved products joined against the live catalog.
func WishlistFetch(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := wishlist.Resolve(stores.Wishlist.Items(), store)
		responses.WriteSuccess(w, wishlistResponse{Items: items, Count: len(items)})
	}
}

// WishlistToggle saves or unsaves a product.
func WishlistToggle(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload toggleWishlistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := resolveProduct(store, payload.ProductID, payload.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved := stores.Wishlist.Toggle(r.Context(), product)
		responses.WriteSession(r.Context(), w, http.StatusOK, toggleWishlistResponse{
			ProductID: product.ID,
			Saved:     saved,
			Count:     stores.Wishlist.Count(),
		})
	}
}

// WishlistRemove deletes a saved product by id, including ones gone from the catalog.
func WishlistRemove(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Wishlist.Remove(r.Context(), productID)
		items := wishlist.Resolve(stores.Wishlist.Items(), store)
		responses.WriteSession(r.Context(), w, http.StatusOK, wishlistResponse{Items: items, Count: len(items)})
	}
}

// WishlistClear removes every saved product.
func WishlistClear(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Wishlist.Clear(r.Context())
		responses.WriteSession(r.Context(), w, http.StatusOK, wishlistResponse{Items: []wishlist.Resolved{}})
	}
}
