// Copyright © 2026 TreeCAS Authors

package core

import (
	"github.com/treecas/treecas/pkg/metrics"
)

// M describes metrics for the core package
type M struct {
	// Entries reports materialized entries, tagged by operation
	// (copy, hardlink, symlink, dir, skip)
	Entries metrics.FilesMetrics

	// Usage reports timings, counts and failures of whole checkout calls
	Usage metrics.IOMetrics
}

// Register declares the measures reported by this package
func (m *M) Register(location string) {
	m.Entries.Register(location + "/entries")
	m.Usage.Register(location + "/usage")
}
