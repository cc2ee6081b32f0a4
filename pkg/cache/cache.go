// Package cache provides caching for enumeration results and rendered
// Cayley graph artifacts.
//
// Enumerating a large semigroup can take minutes; its summary (size,
// rule count, idempotents) and rendered graphs are deterministic
// functions of the generators, so both are safe to cache indefinitely.
// Keys are derived by hashing the generator set, which keeps them
// stable across runs and machines.
//
// Backends:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disabled caching
package cache

import (
	"context"
	"time"
)

// TTLs per key class. Enumeration results never go stale, but bounded
// TTLs keep disk and Redis usage in check.
const (
	// TTLRun is the lifetime of cached enumeration summaries.
	TTLRun = 30 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered graph artifacts.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL stores the value
	// without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// RunKeyOpts captures the inputs that affect an enumeration result.
type RunKeyOpts struct {
	// ElementType names the generator type ("transf", "pperm", "perm",
	// "bmat8").
	ElementType string

	// Generators is the generator set as image vectors (or packed bits
	// for matrices), in insertion order. Order matters: positions and
	// words depend on it.
	Generators [][]uint32
}

// ArtifactKeyOpts captures the inputs that affect a rendered graph.
type ArtifactKeyOpts struct {
	// Side is "right" or "left".
	Side string

	// Format is the output format ("dot", "svg", "png").
	Format string
}

// Keyer generates cache keys for the different key classes.
type Keyer interface {
	// RunKey generates a key for an enumeration summary.
	RunKey(opts RunKeyOpts) string

	// ArtifactKey generates a key for a rendered graph artifact derived
	// from the run identified by runKey.
	ArtifactKey(runKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RunKey generates a key for an enumeration summary.
func (k *DefaultKeyer) RunKey(opts RunKeyOpts) string {
	return hashKey("run", opts.ElementType, opts.Generators)
}

// ArtifactKey generates a key for a rendered graph artifact.
func (k *DefaultKeyer) ArtifactKey(runKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", runKey, opts.Side, opts.Format)
}
