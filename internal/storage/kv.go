package storage

import (
	"context"
	"errors"
)

// KV is the durable key-value surface the adapter persists through.
// Implementations own a private key namespace; Clear drops every key
// in that namespace and nothing outside it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)
