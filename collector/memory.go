package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// MemoryUtilization samples how much of total memory is in use,
// counting buffers and page cache as available.
type MemoryUtilization struct{}

func (MemoryUtilization) Name() string {
	return "MemoryUtilization"
}

func (MemoryUtilization) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	memStats, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	if memStats.Total == 0 {
		return nil, fmt.Errorf("memory stats report zero total memory")
	}
	used := float64(memStats.Total-memStats.Available) / float64(memStats.Total) * 100
	return []dto.MetricSample{
		{
			Name:  "MemoryUtilization",
			Value: roundTo(used, 1),
			Unit:  "Percent",
		},
	}, nil
}
