package cas

import (
	"github.com/treecas/treecas/pkg/metrics"
)

// M describes metrics for the cas package
type M struct {
	// Usage reports timings, counts and failures on store reads
	Usage metrics.IOMetrics

	// Objects reports volumetry about resolved objects
	Objects metrics.FilesMetrics
}

// Register declares the measures reported by this package
func (m *M) Register(location string) {
	m.Usage.Register(location + "/io")
	m.Objects.Register(location + "/objects")
}
