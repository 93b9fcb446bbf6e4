package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nexora-storefront/api/middleware"
	"github.com/angelmondragon/nexora-storefront/internal/session"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
)

// SessionProvider hands out the stores for one shopper session.
type SessionProvider interface {
	Get(ctx context.Context, sessionID string) *session.Stores
}

func sessionStores(r *http.Request, sessions SessionProvider) (*session.Stores, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session provider unavailable")
	}
	return sessions.Get(r.Context(), middleware.SessionIDFromContext(r.Context())), nil
}

func pathProductID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").WithDetails(map[string]any{"productId": raw})
	}
	return id, nil
}
