package dto

import "fmt"

type PublishStatus string

const (
	PublishSuccess PublishStatus = "success"
	PublishPartial PublishStatus = "partial"
	PublishFailed  PublishStatus = "failed"
	PublishSkipped PublishStatus = "skipped"
)

// ChunkError records which chunk of a cycle's batch was rejected and why.
type ChunkError struct {
	Chunk int   `json:"chunk"`
	Err   error `json:"-"`
}

func (ce ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", ce.Chunk, ce.Err)
}

// PublishOutcome summarizes one cycle's submission. Accepted points are
// never resubmitted, so a partial outcome only lists the rejected chunks.
type PublishOutcome struct {
	Status      PublishStatus `json:"status"`
	Accepted    int           `json:"accepted"`
	Rejected    int           `json:"rejected"`
	Retries     int           `json:"retries"`
	ChunkErrors []ChunkError  `json:"chunk-errors,omitempty"`
}
