package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// MemoryStore is a map-backed Store with no durability. It backs tests
// and the --ephemeral mode, and is the injectable fake the repository
// is written against.
type MemoryStore struct {
	docs map[string]json.RawMessage
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]json.RawMessage)}
}

// Load decodes the document stored under key into dest.
func (m *MemoryStore) Load(_ context.Context, key string, dest any) error {
	payload, ok := m.docs[key]
	if !ok {
		return fmt.Errorf("loading %q: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decoding %q: %w", key, err)
	}
	return nil
}

// Save serializes value and stores it under key.
func (m *MemoryStore) Save(_ context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	m.docs[key] = payload
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// SetRaw stores an arbitrary payload under key without validation.
// Tests use it to simulate corrupt documents.
func (m *MemoryStore) SetRaw(key string, payload []byte) {
	m.docs[key] = json.RawMessage(payload)
}
