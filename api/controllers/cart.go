package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID int    `json:"productId" validate:"required_without=Slug"`
	Slug      string `json:"slug" validate:"required_without=ProductID"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func resolveProduct(store *catalog.Store, id int, slug string) (catalog.Product, error) {
	if id > 0 {
		if p, ok := store.FindByID(id); ok {
			return p, nil
		}
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"productId": id})
	}
	if p, ok := store.FindBySlug(slug); ok {
		return p, nil
	}
	return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"slug": slug})
}

// CartFetch returns the cart with derived totals.
func CartFetch(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores.Cart.Summary())
	}
}

// CartAddItem adds a catalog product to the cart. Missing quantity means one.
func CartAddItem(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := resolveProduct(store, payload.ProductID, payload.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Cart.Add(r.Context(), product, payload.Quantity)
		responses.WriteSession(r.Context(), w, http.StatusCreated, stores.Cart.Summary())
	}
}

// CartUpdateItem sets the quantity of a cart line. Unknown lines are left alone.
func CartUpdateItem(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
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
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Cart.UpdateQuantity(r.Context(), productID, payload.Quantity)
		responses.WriteSession(r.Context(), w, http.StatusOK, stores.Cart.Summary())
	}
}

// CartRemoveItem deletes a cart line.
func CartRemoveItem(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
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
		stores.Cart.Remove(r.Context(), productID)
		responses.WriteSession(r.Context(), w, http.StatusOK, stores.Cart.Summary())
	}
}

// CartClear empties the cart.
func CartClear(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Cart.Clear(r.Context())
		responses.WriteSession(r.Context(), w, http.StatusOK, stores.Cart.Summary())
	}
}
