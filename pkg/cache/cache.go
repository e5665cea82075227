// Package cache stores rendered images so unchanged source is not sent to
// the rendering engine again.
//
// Only successful renders are cached. Entries are keyed by engine, format and
// a SHA-256 of the diagram source (see [Keyer]), so any edit to the source
// produces a new key and old entries simply expire.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the XDG cache dir (CLI)
//   - [RedisCache]: shared cache for several `umlpad serve` instances
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// TTLRender is how long a rendered image stays cached.
	TTLRender = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey identifies one rendered image.
	RenderKey(engine, format, sourceHash string) string
}

// RenderKeyer produces keys of the form "<prefix>render:<engine>:<format>:<hash>".
// Servers sharing one redis instance set Prefix to keep their entries apart,
// e.g. "umlpad:staging:".
type RenderKeyer struct {
	Prefix string
}

// NewKeyer creates a keyer with the given prefix, which may be empty.
func NewKeyer(prefix string) Keyer {
	return RenderKeyer{Prefix: prefix}
}

// RenderKey implements Keyer.
func (k RenderKeyer) RenderKey(engine, format, sourceHash string) string {
	return k.Prefix + "render:" + engine + ":" + format + ":" + sourceHash
}

// Digest returns the hex SHA-256 of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
