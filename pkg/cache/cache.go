// Package cache provides caching for analysis pipelines.
//
// The Cache interface abstracts over storage backends (file-based for
// CLI usage, Redis for server deployments, null for tests). The Keyer
// interface generates deterministic, content-addressed cache keys for
// the three expensive artifact classes: visibility matrices, analysis
// snapshots, and rendered graph artifacts.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for cached byte blobs.
// All implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. Returns (data, true, nil) on a hit and
	// (nil, false, nil) on a miss. Errors indicate backend failures,
	// never misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources (connections, file handles).
	Close() error
}

// Default TTLs per key class. Visibility and analysis entries are
// content-addressed (the key embeds the grid hash), so they never go
// stale; their TTLs only bound storage growth.
const (
	VisibilityTTL = 30 * 24 * time.Hour
	AnalysisTTL   = 7 * 24 * time.Hour
	ArtifactTTL   = 24 * time.Hour
)

// Keyer generates cache keys for the pipeline's cacheable stages.
// Implementations must be deterministic: identical inputs always
// produce identical keys.
type Keyer interface {
	// VisibilityKey generates a key for a tile visibility matrix.
	// gridHash is the SHA-256 hash of the grid contents.
	VisibilityKey(gridHash string) string

	// AnalysisKey generates a key for an analysis snapshot
	// (graphs plus metrics) derived from a grid.
	AnalysisKey(gridHash string, opts AnalysisKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact derived
	// from a graph snapshot hash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// AnalysisKeyOpts are the parameters that change an analysis result.
type AnalysisKeyOpts struct {
	// Views lists the graph views built (rooms, objects, tiles,
	// visibility, outline). Order matters for the key.
	Views []string
}

// ArtifactKeyOpts are the parameters that change a rendered artifact.
type ArtifactKeyOpts struct {
	View   string // graph view rendered (e.g. "rooms", "visibility")
	Format string // output format (e.g. "svg", "png", "dot")
}

// DefaultKeyer is the standard Keyer implementation.
// Keys are prefixed by class and hashed with SHA-256 where option
// structs participate, so any option change produces a new key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// VisibilityKey generates a key of the form "vis:<gridHash>".
// The grid hash is already collision-resistant, so no further
// hashing is needed.
func (k *DefaultKeyer) VisibilityKey(gridHash string) string {
	return "vis:" + gridHash
}

// AnalysisKey generates a key for an analysis snapshot.
func (k *DefaultKeyer) AnalysisKey(gridHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", gridHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
