package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/load"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// LoadAverage samples the 1-minute system load average.
type LoadAverage struct{}

func (LoadAverage) Name() string {
	return "LoadAverage"
}

func (LoadAverage) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	loadAvg, err := load.AvgWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return []dto.MetricSample{
		{
			Name:  "LoadAverage",
			Value: roundTo(loadAvg.Load1, 2),
			Unit:  "Count",
		},
	}, nil
}
