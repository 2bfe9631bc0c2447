// Package kv defines the durable key-value slot the transaction collection is
// persisted to. Backends live in the subpackages and in internal/storage.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when nothing was ever stored under the key.
	ErrNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded is returned by Set when the backend has no room left.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Store is an opaque get/set byte store. Set overwrites the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
