package batch

import (
	"log"
	"time"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// Builder turns one cycle's collector results into a publishable batch:
// every sample gets the cycle timestamp and the host identity dimensions
// merged in. Samples from failed collectors are left out.
type Builder struct {
	identity dto.HostIdentity
	verbose  bool
}

func NewBuilder(identity dto.HostIdentity, verbose bool) *Builder {
	return &Builder{
		identity: identity,
		verbose:  verbose,
	}
}

func (b *Builder) Identity() dto.HostIdentity {
	return b.identity
}

// Build never fails; collectors that produced nothing are logged and
// skipped. An empty return means the whole cycle is degraded and the
// caller should not publish.
func (b *Builder) Build(results []dto.CollectorResult, collectedAt time.Time) dto.MetricBatch {
	identityDims := b.identity.Dimensions()

	var batch dto.MetricBatch
	for _, result := range results {
		if result.Err != nil {
			if result.Failed() {
				log.Printf("collector %s failed, omitting from batch: %v", result.Collector, result.Err)
			} else {
				log.Printf("collector %s partially failed: %v", result.Collector, result.Err)
			}
		}
		for _, sample := range result.Samples {
			if err := sample.Validate(); err != nil {
				log.Printf("collector %s: refusing invalid sample: %v", result.Collector, err)
				continue
			}
			sample.Timestamp = collectedAt
			sample.Dimensions = mergeDimensions(identityDims, sample.Dimensions)
			batch = append(batch, sample)
		}
	}

	if b.verbose && len(batch) > 0 {
		for _, sample := range batch {
			log.Printf("collected %s=%v %s %v", sample.Name, sample.Value, sample.Unit, sample.Dimensions)
		}
	}

	return batch
}

func mergeDimensions(identity, sample map[string]string) map[string]string {
	merged := make(map[string]string, len(identity)+len(sample))
	for name, value := range identity {
		merged[name] = value
	}
	for name, value := range sample {
		merged[name] = value
	}
	return merged
}
