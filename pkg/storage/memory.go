package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps every session's keys in process memory.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: map[string]map[string]string{}}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Ping(context.Context) error { return nil }

func (m *MemoryBackend) Session(sessionID string) KV {
	return &memoryKV{backend: m, sessionID: NormalizeSessionID(sessionID)}
}

// NewMemoryKV returns a standalone in-memory KV, mostly useful in tests.
func NewMemoryKV() KV {
	return NewMemoryBackend().Session("")
}

type memoryKV struct {
	backend   *MemoryBackend
	sessionID string
}

func (kv *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.backend.mu.RLock()
	defer kv.backend.mu.RUnlock()
	value, ok := kv.backend.sessions[kv.sessionID][key]
	return value, ok, nil
}

func (kv *memoryKV) Set(_ context.Context, key, value string) error {
	kv.backend.mu.Lock()
	defer kv.backend.mu.Unlock()
	entries, ok := kv.backend.sessions[kv.sessionID]
	if !ok {
		entries = map[string]string{}
		kv.backend.sessions[kv.sessionID] = entries
	}
	entries[key] = value
	return nil
}

func (kv *memoryKV) Remove(_ context.Context, key string) error {
	kv.backend.mu.Lock()
	defer kv.backend.mu.Unlock()
	entries, ok := kv.backend.sessions[kv.sessionID]
	if !ok {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(kv.backend.sessions, kv.sessionID)
	}
	return nil
}
