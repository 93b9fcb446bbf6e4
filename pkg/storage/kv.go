// Package storage persists per-session key-value state for the storefront stores.
package storage

import (
	"context"
	"strings"
)

// Persisted session keys.
const (
	KeyCartItems       = "cart_items"
	KeyWishlistItems   = "wishlist_items"
	KeyRecentSearches  = "recent_searches"
	KeyRecentlyViewed  = "recently_viewed"
	KeyThemePreference = "theme_preference"
)

// KV is the string-keyed persistence surface each session store writes to.
// Get reports ok=false for missing keys.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend hands out session-scoped KV views over one physical store.
type Backend interface {
	Session(sessionID string) KV
	Ping(ctx context.Context) error
	Name() string
}

// NormalizeSessionID trims the id and substitutes "anonymous" for blanks.
func NormalizeSessionID(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "anonymous"
	}
	return sessionID
}
