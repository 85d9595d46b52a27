package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"ChintuIdrive/cloudwatch-metrics/batch"
	"ChintuIdrive/cloudwatch-metrics/collector"
	"ChintuIdrive/cloudwatch-metrics/conf"
	"ChintuIdrive/cloudwatch-metrics/dto"
	"ChintuIdrive/cloudwatch-metrics/publisher"
)

// CycleStatus is the record of the most recent cycle, kept only for the
// diagnostic API. Nothing here feeds back into later cycles.
type CycleStatus struct {
	StartedAt time.Time          `json:"started-at"`
	Duration  time.Duration      `json:"duration"`
	Samples   dto.MetricBatch    `json:"samples"`
	Outcome   dto.PublishOutcome `json:"outcome"`
	Degraded  bool               `json:"degraded"`
}

// MetricsDaemon drives the collect -> build -> publish cycle on a fixed
// interval until its context is cancelled. Cycles never overlap, and no
// failure inside a cycle terminates the loop.
type MetricsDaemon struct {
	config     *conf.Config
	collectors []collector.Collector
	builder    *batch.Builder
	publisher  *publisher.Publisher

	statsLock sync.RWMutex
	lastCycle *CycleStatus
}

func NewMetricsDaemon(config *conf.Config, collectors []collector.Collector,
	builder *batch.Builder, pub *publisher.Publisher) *MetricsDaemon {
	return &MetricsDaemon{
		config:     config,
		collectors: collectors,
		builder:    builder,
		publisher:  pub,
	}
}

// Run blocks until ctx is cancelled. The sleep between cycles is
// shortened by however long the cycle took, so ticks stay roughly
// wall-clock aligned; a cycle longer than the interval just starts the
// next one immediately instead of queueing a backlog.
func (d *MetricsDaemon) Run(ctx context.Context) {
	interval := d.config.Interval()
	log.Printf("starting metrics daemon, interval %s, %d collectors", interval, len(d.collectors))

	for {
		start := time.Now()
		d.runCycle(ctx, start)
		elapsed := time.Since(start)

		sleep := sleepFor(interval, elapsed)
		if sleep == 0 {
			log.Printf("degraded cycle: took %s, longer than the %s interval", elapsed, interval)
		} else if d.config.Verbose {
			log.Printf("sleeping for %s", sleep)
		}

		select {
		case <-ctx.Done():
			log.Printf("shutdown signal observed, stopping metrics daemon")
			return
		case <-time.After(sleep):
		}
	}
}

// sleepFor is max(0, interval - elapsed): long cycles shrink the sleep
// but never invert it.
func sleepFor(interval, elapsed time.Duration) time.Duration {
	sleep := interval - elapsed
	if sleep < 0 {
		return 0
	}
	return sleep
}

func (d *MetricsDaemon) runCycle(ctx context.Context, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cycle panicked, continuing to next cycle: %v", r)
		}
	}()

	// Everything in this cycle, publish retries included, must finish
	// before the next tick would fire.
	cycleCtx, cancel := context.WithDeadline(ctx, start.Add(d.config.Interval()))
	defer cancel()

	results := collector.RunCollectors(cycleCtx, d.collectors, d.config.CollectorTimeout())
	metricBatch := d.builder.Build(results, time.Now())

	status := &CycleStatus{
		StartedAt: start,
		Samples:   metricBatch,
	}

	if len(metricBatch) == 0 {
		log.Printf("all collectors failed this cycle, skipping publish")
		status.Degraded = true
		status.Outcome = dto.PublishOutcome{Status: dto.PublishSkipped}
	} else {
		status.Outcome = d.publisher.Publish(cycleCtx, metricBatch)
		switch status.Outcome.Status {
		case dto.PublishSuccess:
			log.Printf("submitted %d metrics for instance %s", status.Outcome.Accepted, d.instanceID())
		case dto.PublishPartial:
			status.Degraded = true
			log.Printf("partial publish: %d accepted, %d rejected", status.Outcome.Accepted, status.Outcome.Rejected)
		case dto.PublishFailed:
			status.Degraded = true
			log.Printf("publish failed: %d metrics rejected", status.Outcome.Rejected)
		}
	}

	status.Duration = time.Since(start)

	d.statsLock.Lock()
	d.lastCycle = status
	d.statsLock.Unlock()
}

// LastCycle returns the most recent cycle's record, or nil before the
// first cycle completes.
func (d *MetricsDaemon) LastCycle() *CycleStatus {
	d.statsLock.RLock()
	defer d.statsLock.RUnlock()
	return d.lastCycle
}

func (d *MetricsDaemon) instanceID() string {
	return d.builder.Identity().InstanceID
}
