package cas

import (
	"go.uber.org/zap"

	"github.com/treecas/treecas/pkg/storage"
)

// Option to configure the object store
type Option func(*objectStore)

// Backend specifies the backend store
func Backend(store storage.Store) Option {
	return func(s *objectStore) {
		s.backend = store
	}
}

// Prefix sets the key namespace on the backing store
func Prefix(prefix string) Option {
	return func(s *objectStore) {
		s.prefix = prefix
	}
}

// Logger sets a logger for this store
func Logger(l *zap.Logger) Option {
	return func(s *objectStore) {
		if l != nil {
			s.l = l
		}
	}
}

// VerifyHash enables hash verification on objects read back from the store
func VerifyHash(enabled bool) Option {
	return func(s *objectStore) {
		s.withVerifyHash = enabled
	}
}

// TreeCacheSize sets the size of the LRU cache for decoded trees, in number of trees
func TreeCacheSize(trees int) Option {
	return func(s *objectStore) {
		if trees > 0 {
			s.treeCacheSize = trees
		}
	}
}

// WithMetrics toggles metrics collection on this store
func WithMetrics(enabled bool) Option {
	return func(s *objectStore) {
		s.EnableMetrics(enabled)
	}
}
