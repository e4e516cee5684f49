package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend (e.g. a shared Redis) serves
// several deployments or environments that must not see each other's
// entries.
//
// Example usage:
//
//	// Staging-scoped keys on a shared backend
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//
//	// Unscoped keys for a dedicated backend
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// VisibilityKey generates a prefixed key for visibility matrix caching.
func (k *ScopedKeyer) VisibilityKey(gridHash string) string {
	return k.prefix + k.inner.VisibilityKey(gridHash)
}

// AnalysisKey generates a prefixed key for analysis snapshot caching.
func (k *ScopedKeyer) AnalysisKey(gridHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(gridHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
