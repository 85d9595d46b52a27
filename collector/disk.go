package collector

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shirou/gopsutil/v3/disk"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// DiskSpaceUtilization samples the used percentage of each monitored
// mount. With no mounts configured it enumerates every local mount.
// One unreadable mount (a hung NFS share, an unmounted disk) is skipped
// and reported as a sub-failure; the rest still get sampled.
type DiskSpaceUtilization struct {
	mounts []string
}

func NewDiskSpaceUtilization(mounts []string) *DiskSpaceUtilization {
	return &DiskSpaceUtilization{mounts: mounts}
}

func (*DiskSpaceUtilization) Name() string {
	return "DiskSpaceUtilization"
}

func (dsu *DiskSpaceUtilization) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	deviceForMount := make(map[string]string, len(partitions))
	for _, partition := range partitions {
		deviceForMount[partition.Mountpoint] = partition.Device
	}

	mounts := dsu.mounts
	if len(mounts) == 0 {
		for _, partition := range partitions {
			mounts = append(mounts, partition.Mountpoint)
		}
	}

	var samples []dto.MetricSample
	var skipped []error
	for _, mountPath := range mounts {
		usage, err := disk.UsageWithContext(ctx, mountPath)
		if err != nil {
			log.Printf("error getting disk usage for %s: %v", mountPath, err)
			skipped = append(skipped, fmt.Errorf("mount %s: %w", mountPath, err))
			continue
		}
		if usage.Total == 0 {
			// Pseudo filesystems report no blocks; nothing to measure.
			continue
		}
		used := float64(usage.Total-usage.Free) / float64(usage.Total) * 100
		dims := map[string]string{"MountPath": mountPath}
		if device := deviceForMount[mountPath]; device != "" {
			dims["Filesystem"] = device
		}
		samples = append(samples, dto.MetricSample{
			Name:       "DiskSpaceUtilization",
			Value:      roundTo(used, 1),
			Unit:       "Percent",
			Dimensions: dims,
		})
	}

	return samples, errors.Join(skipped...)
}
