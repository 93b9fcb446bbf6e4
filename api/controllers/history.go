package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/catalog"
	"github.com/angelmondragon/nexora-storefront/internal/history"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

// RecentlyViewed resolves the caller's viewed products, optionally excluding one id.
func RecentlyViewed(store *catalog.Store, sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		exclude, err := validators.ParseQueryInt(r, "exclude", 0, 0, 1<<31-1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", history.ViewedCap, 1, history.ViewedCap)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores.Viewed.Products(store, exclude, limit))
	}
}
