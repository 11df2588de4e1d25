package store

import (
	"context"
	"errors"
	"log/slog"
)

// Fixed document keys. The whole task list and the whole category list
// are each persisted as one JSON document under a stable name.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
)

// ErrNotFound is returned by Load when no document exists under the
// requested key.
var ErrNotFound = errors.New("document not found")

// Store persists named JSON documents. Implementations serialize the
// value on Save and decode into dest on Load. The store is shared
// process-wide state with no cross-process coordination; concurrent
// writers from two processes are last-write-wins.
type Store interface {
	Load(ctx context.Context, key string, dest any) error
	Save(ctx context.Context, key string, value any) error
	Close() error
}

// LoadOr loads the document under key into a value of type T. It never
// fails: a missing key, a decode error, or any backend failure falls
// back to def, logging everything except the ordinary missing-key case.
func LoadOr[T any](ctx context.Context, s Store, key string, def T, logger *slog.Logger) T {
	var out T
	err := s.Load(ctx, key, &out)
	if err == nil {
		return out
	}
	if !errors.Is(err, ErrNotFound) && logger != nil {
		logger.Warn("falling back to default document",
			"key", key, "error", err)
	}
	return def
}
