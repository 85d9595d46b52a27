package collector

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

type fakeCollector struct {
	name    string
	samples []dto.MetricSample
	err     error
	delay   time.Duration
	panics  bool
}

func (fc fakeCollector) Name() string { return fc.name }

func (fc fakeCollector) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	if fc.panics {
		panic("boom")
	}
	if fc.delay > 0 {
		select {
		case <-time.After(fc.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return fc.samples, fc.err
}

func sample(name string, value float64) dto.MetricSample {
	return dto.MetricSample{Name: name, Value: value, Unit: "Count"}
}

func TestRunCollectorsIsolation(t *testing.T) {
	collectors := []Collector{
		fakeCollector{name: "LoadAverage", samples: []dto.MetricSample{sample("LoadAverage", 0.5)}},
		fakeCollector{name: "MemoryUtilization", err: fmt.Errorf("meminfo unreadable")},
		fakeCollector{name: "NetworkConnections", samples: []dto.MetricSample{sample("NetworkConnections", 12)}},
	}

	results := RunCollectors(context.Background(), collectors, time.Second)
	require.Len(t, results, 3)

	assert.Equal(t, "LoadAverage", results[0].Collector)
	assert.Len(t, results[0].Samples, 1)
	assert.NoError(t, results[0].Err)

	assert.True(t, results[1].Failed())

	assert.Len(t, results[2].Samples, 1)
	assert.NoError(t, results[2].Err)
}

func TestRunCollectorsTimeout(t *testing.T) {
	collectors := []Collector{
		fakeCollector{name: "OpenFileDescriptorCount", delay: 5 * time.Second, samples: []dto.MetricSample{sample("OpenFileDescriptorCount", 100)}},
		fakeCollector{name: "LoadAverage", samples: []dto.MetricSample{sample("LoadAverage", 0.5)}},
	}

	start := time.Now()
	results := RunCollectors(context.Background(), collectors, 50*time.Millisecond)
	elapsed := time.Since(start)

	// The stuck collector must not hold up the cycle.
	assert.Less(t, elapsed, time.Second)
	assert.True(t, results[0].Failed())
	assert.Len(t, results[1].Samples, 1)
}

func TestRunCollectorsPanicRecovery(t *testing.T) {
	collectors := []Collector{
		fakeCollector{name: "MemoryUtilization", panics: true},
		fakeCollector{name: "LoadAverage", samples: []dto.MetricSample{sample("LoadAverage", 0.5)}},
	}

	results := RunCollectors(context.Background(), collectors, time.Second)

	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Err.Error(), "panicked")
	assert.Len(t, results[1].Samples, 1)
}

func TestSanitizeDropsNonFiniteSamples(t *testing.T) {
	result := sanitize("MemoryUtilization", []dto.MetricSample{
		sample("MemoryUtilization", math.NaN()),
		sample("MemoryUtilization", 42.5),
		sample("MemoryUtilization", math.Inf(1)),
	}, nil)

	require.Len(t, result.Samples, 1)
	assert.Equal(t, 42.5, result.Samples[0].Value)
	assert.Error(t, result.Err)
	assert.False(t, result.Failed())
}

func TestSanitizeKeepsCollectorError(t *testing.T) {
	result := sanitize("DiskSpaceUtilization", []dto.MetricSample{
		sample("DiskSpaceUtilization", 60.0),
	}, fmt.Errorf("mount /data: permission denied"))

	assert.Len(t, result.Samples, 1)
	assert.ErrorContains(t, result.Err, "/data")
	assert.False(t, result.Failed())
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 60.0, roundTo(59.99, 1))
	assert.Equal(t, 33.3, roundTo(100.0/3, 1))
	assert.Equal(t, 0.42, roundTo(0.424, 2))
}
