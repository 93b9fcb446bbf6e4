package storage

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/metrics"
)

// Slot persists one JSON document under a fixed key. Load never fails: missing,
// unreadable or malformed values yield the zero value.
type Slot[T any] struct {
	kv      KV
	key     string
	store   string
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// SlotParams wires a Slot. Store labels logs and metrics.
type SlotParams struct {
	KV      KV
	Key     string
	Store   string
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

func NewSlot[T any](params SlotParams) *Slot[T] {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	kv := params.KV
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Slot[T]{
		kv:      kv,
		key:     params.Key,
		store:   params.Store,
		logg:    logg,
		metrics: params.Metrics,
	}
}

// Load reads and decodes the stored value.
func (s *Slot[T]) Load(ctx context.Context) T {
	var value T
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"store": s.store, "key": s.key, "error": err.Error()}), "session state read failed")
		return value
	}
	if !ok || raw == "" {
		return value
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"store": s.store, "key": s.key}), "discarding malformed session state")
		s.metrics.IncDiscarded(s.store)
		var empty T
		return empty
	}
	return value
}

// Save encodes and writes value. Failures are logged and counted, then returned.
func (s *Slot[T]) Save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		s.fail(ctx, err)
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(payload)); err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

// Clear removes the stored value.
func (s *Slot[T]) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.fail(ctx, err)
		return err
	}
	return nil
}

func (s *Slot[T]) fail(ctx context.Context, err error) {
	s.logg.Error(s.logg.WithFields(ctx, map[string]any{"store": s.store, "key": s.key}), "session state write failed", err)
	s.metrics.IncPersistFailure(s.store)
}
