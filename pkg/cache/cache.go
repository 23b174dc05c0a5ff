// Package cache stores rendered resume artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under the user cache directory (CLI)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document store with a TTL index
//
// # Keys
//
// Artifacts are keyed by content, so a resume that has not changed is never
// rendered twice for the same template and format:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(canonicalJSON), cache.ArtifactKeyOpts{
//	    Template: "classic",
//	    Format:   "docx",
//	})
//
// [ScopedKeyer] prefixes every key, which keeps several deployments apart
// when they share one backend.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. An expired
	// entry is a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey is the key of one rendered output.
	ArtifactKey(resumeHash string, opts ArtifactKeyOpts) string

	// PlanKey is the key of a resume's block plan.
	PlanKey(resumeHash string) string
}

// ArtifactKeyOpts are the render inputs that change an artifact.
type ArtifactKeyOpts struct {
	Template string `json:"template"`
	Format   string `json:"format"`
	// Skin is the fingerprint of the resolved skin, so a template ID
	// redefined by another registry never reuses old bytes.
	Skin string `json:"skin,omitempty"`
	// Version invalidates artifacts produced by older renderers.
	Version string `json:"version,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the resume hash and options.
func (DefaultKeyer) ArtifactKey(resumeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resumeHash, opts)
}

// PlanKey returns "plan:<sha256>".
func (DefaultKeyer) PlanKey(resumeHash string) string {
	return hashKey("plan", resumeHash)
}
