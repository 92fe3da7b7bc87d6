// Copyright © 2026 TreeCAS Authors

package metrics

import (
	"time"

	"go.opencensus.io/stats"
)

// FilesMetrics is a common set of metrics reporting about file activity
type FilesMetrics struct {
	FileCount *stats.Int64Measure
	FileSize  *stats.Int64Measure
}

// Register declares the measures and views under a location prefix
func (f *FilesMetrics) Register(location string) {
	f.FileCount = stats.Int64(location+"/fileCount", "number of files", stats.UnitDimensionless)
	f.FileSize = stats.Int64(location+"/fileSize", "size of files", stats.UnitBytes)
	mustRegister(countView(f.FileCount), sumView(f.FileSize))
}

// Inc increments the counter for files
func (f *FilesMetrics) Inc(operation string) {
	Inc(f.FileCount, operation)
}

// Size measures the size of a file. Zero sizes are not recorded.
func (f *FilesMetrics) Size(size int64, operation string) {
	if size == 0 {
		return
	}
	Int64(f.FileSize, size, operation)
}

// IOMetrics is a common set of metrics reporting about IO activity
type IOMetrics struct {
	Count    *stats.Int64Measure
	Failures *stats.Int64Measure
	IOSize   *stats.Int64Measure
	Timing   *stats.Float64Measure
}

// Register declares the measures and views under a location prefix
func (n *IOMetrics) Register(location string) {
	n.Count = stats.Int64(location+"/ioCount", "number of IO requests", stats.UnitDimensionless)
	n.Failures = stats.Int64(location+"/ioFailures", "number of failed IOs", stats.UnitDimensionless)
	n.IOSize = stats.Int64(location+"/ioSize", "IO chunk size in bytes", stats.UnitBytes)
	n.Timing = stats.Float64(location+"/timing", "response time in milliseconds", stats.UnitMilliseconds)
	mustRegister(countView(n.Count), countView(n.Failures), sumView(n.IOSize), timingView(n.Timing))
}

// IO records timing and count for an IO operation, from some start time.
//
// Example:
//
//	defer m.IO(time.Now(), "read")
func (n *IOMetrics) IO(start time.Time, operation string) {
	Since(start, n.Timing, operation)
	Inc(n.Count, operation)
}

// Size records the size of some IO operation. Zero sizes are not recorded.
func (n *IOMetrics) Size(size int64, operation string) {
	if size == 0 {
		return
	}
	Int64(n.IOSize, size, operation)
}

// Failed records a failure on some IO operation
func (n *IOMetrics) Failed(operation string) {
	Inc(n.Failures, operation)
}
