package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one Redis instance backs several deployments or
// when tests need keys that cannot collide with real data.
//
// Example usage:
//
//	testKeyer := NewScopedKeyer(NewDefaultKeyer(), "test:")
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

// RunKey generates a prefixed key for an enumeration summary.
func (k *ScopedKeyer) RunKey(opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(opts)
}

// ArtifactKey generates a prefixed key for a rendered graph artifact.
func (k *ScopedKeyer) ArtifactKey(runKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(runKey, opts)
}
