package clients

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

type CloudWatchClient struct {
	client    *cloudwatch.Client
	namespace string
}

func NewCloudWatchClient(cfg aws.Config, namespace string) *CloudWatchClient {
	client := cloudwatch.NewFromConfig(cfg, func(o *cloudwatch.Options) {
		// The publisher owns retry and backoff; the SDK must not retry
		// underneath it or attempts get double counted.
		o.RetryMaxAttempts = 1
	})

	return &CloudWatchClient{
		client:    client,
		namespace: namespace,
	}
}

// PutMetrics submits one chunk of samples as a single PutMetricData
// call. The caller is responsible for keeping len(samples) within the
// API's per-request cap.
func (cw *CloudWatchClient) PutMetrics(ctx context.Context, samples []dto.MetricSample) error {
	metricData := make([]types.MetricDatum, 0, len(samples))
	for _, sample := range samples {
		datum := types.MetricDatum{
			MetricName: aws.String(sample.Name),
			Value:      aws.Float64(sample.Value),
			Unit:       types.StandardUnit(sample.Unit),
			Dimensions: toDimensions(sample.Dimensions),
		}
		if !sample.Timestamp.IsZero() {
			datum.Timestamp = aws.Time(sample.Timestamp)
		}
		metricData = append(metricData, datum)
	}

	_, err := cw.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(cw.namespace),
		MetricData: metricData,
	})
	return err
}

func toDimensions(dims map[string]string) []types.Dimension {
	if len(dims) == 0 {
		return nil
	}
	names := make([]string, 0, len(dims))
	for name := range dims {
		names = append(names, name)
	}
	// Stable order keeps request bodies reproducible in verbose logs.
	sort.Strings(names)

	dimensions := make([]types.Dimension, 0, len(names))
	for _, name := range names {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(dims[name]),
		})
	}
	return dimensions
}
