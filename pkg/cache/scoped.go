package cache

// ScopedKeyer prepends a fixed prefix to every key of an inner keyer.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "vitae:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(resumeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resumeHash, opts)
}

// PlanKey returns the prefixed plan key.
func (k *ScopedKeyer) PlanKey(resumeHash string) string {
	return k.prefix + k.inner.PlanKey(resumeHash)
}
