// Copyright © 2026 TreeCAS Authors

// Package metrics collects usage and volumetry metrics with opencensus.
//
// Packages declare a metrics struct with the groups they report on, then
// register it once with EnsureMetrics. Recording is a no-op until an
// exporter is registered with opencensus by the program's driver.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	registry sync.Map

	// KeyOperation tags measurements with the operation being carried out
	KeyOperation = tag.MustNewKey("operation")
)

// Registerable metrics know how to declare their measures and views under
// some location prefix.
type Registerable interface {
	Register(location string)
}

// EnsureMetrics lazily registers a set of measures for a location.
//
// It may safely be called several times for the same location: only the
// first registration is retained.
func EnsureMetrics(location string, m Registerable) interface{} {
	if actual, ok := registry.Load(location); ok {
		return actual
	}
	m.Register(location)
	actual, _ := registry.LoadOrStore(location, m)
	return actual
}

// Enable is a mixin for types that optionally report metrics.
type Enable struct {
	enabled bool
}

// EnableMetrics toggles metrics collection
func (e *Enable) EnableMetrics(enabled bool) {
	e.enabled = enabled
}

// MetricsEnabled tells whether metrics collection is enabled
func (e *Enable) MetricsEnabled() bool {
	return e.enabled
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, operation string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)}, counter.M(1))
}

// Int64 records a value for a measurement
func Int64(measure *stats.Int64Measure, value int64, operation string) {
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)}, measure.M(value))
}

// Since records a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, operation string) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(context.Background(),
		[]tag.Mutator{tag.Upsert(KeyOperation, operation)}, measure.M(ms))
}

func mustRegister(views ...*view.View) {
	if err := view.Register(views...); err != nil {
		panic(err)
	}
}

func countView(m stats.Measure) *view.View {
	return &view.View{
		Name:        m.Name(),
		Description: m.Description(),
		Measure:     m,
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Count(),
	}
}

func sumView(m stats.Measure) *view.View {
	return &view.View{
		Name:        m.Name() + "/sum",
		Description: m.Description(),
		Measure:     m,
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Sum(),
	}
}

func timingView(m stats.Measure) *view.View {
	return &view.View{
		Name:        m.Name(),
		Description: m.Description(),
		Measure:     m,
		TagKeys:     []tag.Key{KeyOperation},
		Aggregation: view.Distribution(1, 5, 10, 50, 100, 500, 1000, 5000),
	}
}
