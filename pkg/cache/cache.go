package cache

import (
	"context"
	"time"
)

// Default TTLs for the cached stages of the pipeline.
const (
	// TTLDocument is how long a serialized chart document stays cached.
	// Documents are keyed by the hash of their spec, so staleness only
	// matters for spec files that share content across edits.
	TTLDocument = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact (HTML page, script) stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
