package controllers

import (
	"net/http"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	"github.com/angelmondragon/nexora-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type themeResponse struct {
	Theme enums.Theme `json:"theme"`
}

func ThemeFetch(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, themeResponse{Theme: stores.Preferences.Theme()})
	}
}

func ThemeUpdate(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload themeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		theme, err := enums.ParseTheme(payload.Theme)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid theme"))
			return
		}
		if err := stores.Preferences.SetTheme(r.Context(), theme); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist theme"))
			return
		}
		responses.WriteSuccess(w, themeResponse{Theme: theme})
	}
}

func ThemeToggle(sessions SessionProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := sessionStores(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		theme, err := stores.Preferences.Toggle(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist theme"))
			return
		}
		responses.WriteSuccess(w, themeResponse{Theme: theme})
	}
}
