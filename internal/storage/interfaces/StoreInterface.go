package interfaces

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// StoreInterface is the key-value store holding per-device state. Values are
// JSON documents the store does not interpret.
type StoreInterface interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// ListKeys returns every key starting with prefix, sorted.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// PersisterInterface is implemented by stores that live in memory and
// snapshot to disk.
type PersisterInterface interface {
	Persist() error
	Restore() error
}
