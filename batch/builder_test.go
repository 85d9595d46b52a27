package batch

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

var testIdentity = dto.HostIdentity{InstanceID: "i-0abc123", HostGroup: "storage"}

func TestBuildStampsIdentityAndTimestamp(t *testing.T) {
	builder := NewBuilder(testIdentity, false)
	now := time.Now()

	results := []dto.CollectorResult{
		{
			Collector: "DiskSpaceUtilization",
			Samples: []dto.MetricSample{
				{
					Name:       "DiskSpaceUtilization",
					Value:      60.0,
					Unit:       "Percent",
					Dimensions: map[string]string{"MountPath": "/"},
				},
			},
		},
	}

	batch := builder.Build(results, now)
	require.Len(t, batch, 1)

	assert.Equal(t, now, batch[0].Timestamp)
	assert.Equal(t, map[string]string{
		"InstanceId": "i-0abc123",
		"HostGroup":  "storage",
		"MountPath":  "/",
	}, batch[0].Dimensions)
}

func TestBuildOmitsFailedCollectors(t *testing.T) {
	builder := NewBuilder(testIdentity, false)

	results := []dto.CollectorResult{
		{Collector: "MemoryUtilization", Err: fmt.Errorf("meminfo unreadable")},
		{
			Collector: "LoadAverage",
			Samples:   []dto.MetricSample{{Name: "LoadAverage", Value: 0.7, Unit: "Count"}},
		},
	}

	batch := builder.Build(results, time.Now())
	require.Len(t, batch, 1)
	assert.Equal(t, "LoadAverage", batch[0].Name)
}

func TestBuildKeepsPartialCollectorSamples(t *testing.T) {
	builder := NewBuilder(testIdentity, false)

	// One readable mount, one skipped: the readable sample still ships.
	results := []dto.CollectorResult{
		{
			Collector: "DiskSpaceUtilization",
			Samples: []dto.MetricSample{
				{
					Name:       "DiskSpaceUtilization",
					Value:      60.0,
					Unit:       "Percent",
					Dimensions: map[string]string{"MountPath": "/"},
				},
			},
			Err: fmt.Errorf("mount /data: input/output error"),
		},
	}

	batch := builder.Build(results, time.Now())
	require.Len(t, batch, 1)
	assert.Equal(t, "/", batch[0].Dimensions["MountPath"])
	assert.Equal(t, 60.0, batch[0].Value)
}

func TestBuildAllCollectorsFailedYieldsEmptyBatch(t *testing.T) {
	builder := NewBuilder(testIdentity, false)

	results := []dto.CollectorResult{
		{Collector: "LoadAverage", Err: fmt.Errorf("loadavg unreadable")},
		{Collector: "MemoryUtilization", Err: fmt.Errorf("meminfo unreadable")},
	}

	batch := builder.Build(results, time.Now())
	assert.Empty(t, batch)
}

func TestBuildRefusesInvalidSamples(t *testing.T) {
	builder := NewBuilder(testIdentity, false)

	results := []dto.CollectorResult{
		{
			Collector: "NetworkConnections",
			Samples: []dto.MetricSample{
				{Name: "", Value: 3, Unit: "Count"},
				{Name: "NetworkConnections", Value: 3, Unit: "Count"},
			},
		},
	}

	batch := builder.Build(results, time.Now())
	require.Len(t, batch, 1)
	assert.Equal(t, "NetworkConnections", batch[0].Name)
}

func TestBuildDoesNotMutateCollectorDimensions(t *testing.T) {
	builder := NewBuilder(testIdentity, false)

	original := map[string]string{"Protocol": "TCP"}
	results := []dto.CollectorResult{
		{
			Collector: "NetworkConnections",
			Samples: []dto.MetricSample{
				{Name: "NetworkConnections", Value: 9, Unit: "Count", Dimensions: original},
			},
		},
	}

	builder.Build(results, time.Now())
	assert.Equal(t, map[string]string{"Protocol": "TCP"}, original)
}
