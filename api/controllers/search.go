package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/internal/search"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
)

// SearchSuggest returns the typeahead dropdown for q, or the recent and trending
// panel when q is blank.
func SearchSuggest(index *search.Index, sessions SessionProvider, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		term := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		result := index.Autocomplete(term, stores.Recent.Terms())
		if term != "" {
			m.IncSearch("suggest")
			if len(result.Products) == 0 {
				m.IncZeroResult("suggest")
			}
		}
		responses.WriteSuccess(w, result)
	}
}

type recentSearchRequest struct {
	Term string `json:"term" validate:"required,max=120"`
}

// SearchRecentList returns the caller's committed searches, most recent first.
func SearchRecentList(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores.Recent.Terms())
	}
}

// SearchRecentCommit records a submitted search term.
func SearchRecentCommit(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload recentSearchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if validators.SanitizeString(payload.Term, 0) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"term": "is required"}))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, stores.Recent.Record(r.Context(), payload.Term))
	}
}

// SearchRecentClear forgets the caller's committed searches.
func SearchRecentClear(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stores.Recent.Clear(r.Context())
		responses.WriteSuccess(w, []string{})
	}
}
