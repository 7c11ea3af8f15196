package kv

import "context"

// Store is a persistent key to string map. It is the only abstraction that
// touches the underlying medium; every collection above it is serialized into
// a single slot under a well-known key.
//
// Get reports absence as (_, false, nil) rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
