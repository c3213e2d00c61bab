// Package cache stores solved towers and rendered artifacts by content key.
//
// Solving is deterministic for a given box list and option set, so a result
// can be reused whenever both match. Keys come from a [Keyer]; values are
// opaque bytes (the pipeline stores JSON).
//
// Three backends are provided:
//   - [FileCache] for the CLI, one JSON file per entry under a directory
//   - [RedisCache] for the HTTP server, shared between processes
//   - [NewNullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLSolve is how long a solved tower stays cached.
	TTLSolve = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered SVG stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewNullCache returns a cache that stores nothing, for --no-cache runs and
// tests.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error { return nil }
func (nullCache) Close() error { return nil }
