package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/nexora-storefront/api/responses"
	"github.com/angelmondragon/nexora-storefront/api/validators"
	pkgerrors "github.com/angelmondragon/nexora-storefront/pkg/errors"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replay"
	idempotencyPrefix = "idem:"
)

// guardedRoutes lists "METHOD pattern" pairs whose successful responses are replayable.
var guardedRoutes = map[string]struct{}{
	http.MethodPost + " /api/v1/checkout": {},
}

// IdempotencyStore persists replayable responses. A session KV satisfies it.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// IdempotencyStoreFor resolves the store for a request, usually the caller's session.
type IdempotencyStoreFor func(r *http.Request) IdempotencyStore

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	BodyHash    string `json:"body_hash"`
	// Pending marks a reservation whose handler has not finished.
	Pending bool `json:"pending,omitempty"`
}

// Idempotency replays the stored response when a guarded route is retried with
// the same Idempotency-Key and body, so a double-submitted checkout places one
// order. Requests without the header pass through. Only 2xx responses are
// stored so a failed attempt can be retried.
//
// Requests sharing a key are serialized in-process: a duplicate waits for the
// first and replays its result. A reservation left by another process is
// reported as a conflict until it resolves.
func Idempotency(storeFor IdempotencyStoreFor, logg *logger.Logger) func(http.Handler) http.Handler {
	locks := newKeyedMutex()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" || storeFor == nil || !routeGuarded(r.Method, routePattern(r)) {
				next.ServeHTTP(w, r)
				return
			}
			store := storeFor(r)
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			bodyHash := digest(body)
			slot := storageKey(r.Method, r.URL.Path, key)
			lockKey := SessionIDFromContext(r.Context()) + "|" + slot

			unlock := locks.lock(lockKey)
			defer unlock()

			prior, err := loadResponse(r.Context(), store, slot)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if prior != nil {
				switch {
				case prior.BodyHash != bodyHash:
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeConflict, "idempotency key reused with different request body"))
				case prior.Pending:
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeConflict, "request with this idempotency key is still in progress"))
				default:
					w.Header().Set(replayHeader, "true")
					prior.writeTo(w)
				}
				return
			}

			if err := saveResponse(r.Context(), store, slot, storedResponse{BodyHash: bodyHash, Pending: true}); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)
			// The reservation outlives a canceled request context.
			ctx := context.WithoutCancel(r.Context())
			if capture.status < 200 || capture.status >= 300 {
				if err := store.Remove(ctx, slot); err != nil && logg != nil {
					logg.Error(ctx, "release idempotency key", err)
				}
				return
			}

			saved := storedResponse{
				Status:      capture.status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				BodyHash:    bodyHash,
			}
			if err := saveResponse(ctx, store, slot, saved); err != nil && logg != nil {
				logg.Error(ctx, "persist idempotent response", err)
			}
		})
	}
}

// keyedMutex hands out one mutex per key and forgets it once nobody holds it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedLock{}}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func loadResponse(ctx context.Context, store IdempotencyStore, slot string) (*storedResponse, error) {
	raw, found, err := store.Get(ctx, slot)
	if err != nil || !found || raw == "" {
		return nil, err
	}
	var saved storedResponse
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func saveResponse(ctx context.Context, store IdempotencyStore, slot string, saved storedResponse) error {
	payload, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return store.Set(ctx, slot, string(payload))
}

func (s *storedResponse) writeTo(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

// storageKey stays short enough for the SQL backend's key column.
func storageKey(method, path, idempotencyKey string) string {
	return idempotencyPrefix + digest([]byte(method+"|"+path+"|"+idempotencyKey))
}

func digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func routePattern(r *http.Request) string {
	// Inside a sub-router the pattern is still partial ("/api/v1/*") when
	// middleware runs, so fall back to the request path.
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && !strings.HasSuffix(pattern, "*") {
			return pattern
		}
	}
	return r.URL.Path
}

func routeGuarded(method, pattern string) bool {
	_, ok := guardedRoutes[method+" "+pattern]
	return ok
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
