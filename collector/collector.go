package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// Collector samples one aspect of host health. Implementations must be
// safe to call from any goroutine and must honor ctx cancellation.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]dto.MetricSample, error)
}

// RunCollectors runs every collector for one cycle, each in its own
// goroutine under its own timeout. One slow or failing collector never
// blocks or invalidates the others' samples.
func RunCollectors(ctx context.Context, collectors []Collector, timeout time.Duration) []dto.CollectorResult {
	results := make([]dto.CollectorResult, len(collectors))
	var wg sync.WaitGroup
	for i, c := range collectors {
		wg.Add(1)
		go func(i int, c Collector) {
			defer wg.Done()
			results[i] = runOne(ctx, c, timeout)
		}(i, c)
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, c Collector, timeout time.Duration) dto.CollectorResult {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan dto.CollectorResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- dto.CollectorResult{
					Collector: c.Name(),
					Err:       fmt.Errorf("collector panicked: %v", r),
				}
			}
		}()
		samples, err := c.Collect(cctx)
		done <- sanitize(c.Name(), samples, err)
	}()

	select {
	case result := <-done:
		return result
	case <-cctx.Done():
		// The goroutine is abandoned; it will drain into the buffered
		// channel whenever the stuck read finally returns.
		log.Printf("collector %s did not finish within %s", c.Name(), timeout)
		return dto.CollectorResult{
			Collector: c.Name(),
			Err:       fmt.Errorf("timed out after %s: %w", timeout, cctx.Err()),
		}
	}
}

// sanitize drops samples a collector should never have produced
// (empty name, NaN, Inf) and records the drop as a collector failure so
// nothing invalid reaches the batch builder.
func sanitize(name string, samples []dto.MetricSample, err error) dto.CollectorResult {
	result := dto.CollectorResult{Collector: name, Err: err}
	for _, sample := range samples {
		if verr := sample.Validate(); verr != nil {
			log.Printf("collector %s: dropping invalid sample: %v", name, verr)
			if result.Err == nil {
				result.Err = verr
			}
			continue
		}
		result.Samples = append(result.Samples, sample)
	}
	return result
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
