package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/net"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// NetworkConnections counts active TCP and UDP connections, one sample
// per protocol.
type NetworkConnections struct{}

func (NetworkConnections) Name() string {
	return "NetworkConnections"
}

func (NetworkConnections) Collect(ctx context.Context) ([]dto.MetricSample, error) {
	tcpConns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, err
	}
	udpConns, err := net.ConnectionsWithContext(ctx, "udp")
	if err != nil {
		return nil, err
	}
	return []dto.MetricSample{
		{
			Name:       "NetworkConnections",
			Value:      float64(len(tcpConns)),
			Unit:       "Count",
			Dimensions: map[string]string{"Protocol": "TCP"},
		},
		{
			Name:       "NetworkConnections",
			Value:      float64(len(udpConns)),
			Unit:       "Count",
			Dimensions: map[string]string{"Protocol": "UDP"},
		},
	}, nil
}
