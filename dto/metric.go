package dto

import (
	"fmt"
	"math"
	"time"
)

// HostIdentity tags every published sample so CloudWatch can aggregate
// per instance or per fleet. Resolved once at startup.
type HostIdentity struct {
	InstanceID string `json:"instance-id"`
	HostGroup  string `json:"host-group,omitempty"`
}

func (hi HostIdentity) Dimensions() map[string]string {
	dims := map[string]string{
		"InstanceId": hi.InstanceID,
	}
	if hi.HostGroup != "" {
		dims["HostGroup"] = hi.HostGroup
	}
	return dims
}

// MetricSample is one measurement headed for CloudWatch.
type MetricSample struct {
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Unit       string            `json:"unit"`
	Dimensions map[string]string `json:"dimensions,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Validate rejects samples CloudWatch would refuse anyway. NaN/Inf must
// never leave a collector.
func (ms MetricSample) Validate() error {
	if ms.Name == "" {
		return fmt.Errorf("metric sample has empty name")
	}
	if math.IsNaN(ms.Value) || math.IsInf(ms.Value, 0) {
		return fmt.Errorf("metric %s has non-finite value %v", ms.Name, ms.Value)
	}
	return nil
}

// MetricBatch is the ordered set of samples produced in one cycle.
type MetricBatch []MetricSample

// Chunk splits the batch into ordered sub-batches of at most limit
// samples, since PutMetricData caps the number of datums per request.
func (mb MetricBatch) Chunk(limit int) []MetricBatch {
	if limit <= 0 || len(mb) == 0 {
		return nil
	}
	chunks := make([]MetricBatch, 0, (len(mb)+limit-1)/limit)
	for start := 0; start < len(mb); start += limit {
		end := start + limit
		if end > len(mb) {
			end = len(mb)
		}
		chunks = append(chunks, mb[start:end])
	}
	return chunks
}

// CollectorResult carries one collector's samples for a cycle. Err is set
// when the collector failed outright or had to skip part of its work
// (e.g. an unreadable mount); a result can hold both samples and an
// error.
type CollectorResult struct {
	Collector string         `json:"collector"`
	Samples   []MetricSample `json:"samples,omitempty"`
	Err       error          `json:"-"`
}

// Failed reports whether the collector produced nothing usable.
func (cr CollectorResult) Failed() bool {
	return cr.Err != nil && len(cr.Samples) == 0
}
