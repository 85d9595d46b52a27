package publisher

import (
	"context"
	"fmt"
	"log"
	"time"

	"ChintuIdrive/cloudwatch-metrics/dto"
)

// MetricsAPI is the remote sink for one chunk of samples. Satisfied by
// clients.CloudWatchClient.
type MetricsAPI interface {
	PutMetrics(ctx context.Context, samples []dto.MetricSample) error
}

// Publisher submits one cycle's batch, chunked to the per-request cap,
// retrying transient failures with exponential backoff. Accepted chunks
// are never resubmitted, so a retry can only duplicate a chunk that was
// rejected outright.
type Publisher struct {
	api         MetricsAPI
	chunkSize   int
	maxAttempts int
	baseBackoff time.Duration
	verbose     bool
}

func New(api MetricsAPI, chunkSize, maxAttempts int, verbose bool) *Publisher {
	return &Publisher{
		api:         api,
		chunkSize:   chunkSize,
		maxAttempts: maxAttempts,
		baseBackoff: 2 * time.Second,
		verbose:     verbose,
	}
}

// Publish sends every chunk of the batch. A chunk that exhausts its
// retries does not stop the later chunks from being attempted; a fatal
// error (auth, malformed request) aborts the remaining chunks since they
// would fail identically.
func (p *Publisher) Publish(ctx context.Context, batch dto.MetricBatch) dto.PublishOutcome {
	outcome := dto.PublishOutcome{Status: dto.PublishSkipped}
	if len(batch) == 0 {
		return outcome
	}

	chunks := batch.Chunk(p.chunkSize)
	for i, chunk := range chunks {
		retries, err := p.publishChunk(ctx, chunk)
		outcome.Retries += retries
		if err == nil {
			outcome.Accepted += len(chunk)
			if p.verbose {
				log.Printf("submitted chunk %d/%d (%d metrics)", i+1, len(chunks), len(chunk))
			}
			continue
		}

		outcome.Rejected += len(chunk)
		outcome.ChunkErrors = append(outcome.ChunkErrors, dto.ChunkError{Chunk: i, Err: err})
		log.Printf("chunk %d/%d rejected (%d metrics): %v", i+1, len(chunks), len(chunk), err)

		if isFatal(err) {
			for _, rest := range chunks[i+1:] {
				outcome.Rejected += len(rest)
			}
			log.Printf("fatal publish error, abandoning %d remaining chunk(s) this cycle", len(chunks)-i-1)
			break
		}
	}

	switch {
	case outcome.Rejected == 0:
		outcome.Status = dto.PublishSuccess
	case outcome.Accepted > 0:
		outcome.Status = dto.PublishPartial
	default:
		outcome.Status = dto.PublishFailed
	}
	return outcome
}

func (p *Publisher) publishChunk(ctx context.Context, chunk dto.MetricBatch) (int, error) {
	backoff := p.baseBackoff
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := p.api.PutMetrics(ctx, chunk)
		if err == nil {
			if attempt > 1 {
				log.Printf("put metric data succeeded on attempt %d", attempt)
			}
			return attempt - 1, nil
		}
		lastErr = err

		if !isRetriable(err) {
			return attempt - 1, err
		}
		if attempt == p.maxAttempts {
			break
		}

		log.Printf("put metric data attempt %d/%d failed, retrying in %s: %v",
			attempt, p.maxAttempts, backoff, err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			// Out of time before the next cycle; do not bleed into it.
			return attempt - 1, fmt.Errorf("gave up waiting to retry: %w", lastErr)
		}
		backoff *= 2
	}

	return p.maxAttempts - 1, fmt.Errorf("exhausted %d attempts: %w", p.maxAttempts, lastErr)
}
