package collector

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

const fileNrPath = "/proc/sys/fs/file-nr"

// OpenFileDescriptorCount samples the number of file descriptors
// currently allocated system-wide, from /proc/sys/fs/file-nr.
type OpenFileDescriptorCount struct{}

func (OpenFileDescriptorCount) Name() string {
	return "OpenFileDescriptorCount"
}

func (OpenFileDescriptorCount) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fileNrPath)
	if err != nil {
		return nil, err
	}
	// file-nr holds three fields: allocated, unused, max.
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return nil, fmt.Errorf("unexpected %s contents: %q", fileNrPath, string(data))
	}
	allocated, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileNrPath, err)
	}
	return []dto.MetricSample{
		{
			Name:  "OpenFileDescriptorCount",
			Value: float64(allocated),
			Unit:  "Count",
		},
	}, nil
}
