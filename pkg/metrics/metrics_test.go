package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMetrics struct {
	IO    IOMetrics
	Files FilesMetrics
}

func (m *testMetrics) Register(location string) {
	m.IO.Register(location + "/io")
	m.Files.Register(location + "/files")
}

func TestEnsureMetrics(t *testing.T) {
	m1 := EnsureMetrics("metrics_test", &testMetrics{}).(*testMetrics)
	require.NotNil(t, m1.IO.Count)

	// second registration for the same location returns the first instance
	m2 := EnsureMetrics("metrics_test", &testMetrics{}).(*testMetrics)
	assert.Same(t, m1, m2)

	// recording without an exporter must be safe
	assert.NotPanics(t, func() {
		m1.IO.IO(time.Now(), "read")
		m1.IO.Size(1024, "read")
		m1.IO.Failed("read")
		m1.Files.Inc("checkout")
		m1.Files.Size(512, "checkout")
	})
}

func TestEnable(t *testing.T) {
	var e Enable
	assert.False(t, e.MetricsEnabled())
	e.EnableMetrics(true)
	assert.True(t, e.MetricsEnabled())
}
