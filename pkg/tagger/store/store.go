package store

import (
	"context"
	"time"
)

// Store persists tagged batches so results can be reviewed or fed back
// into training.
type Store interface {
	Close() error

	// Batches
	SaveBatch(ctx context.Context, b Batch) error
	GetBatch(ctx context.Context, id string) (Batch, error)
	ListBatches(ctx context.Context, limit int) ([]BatchSummary, error)
}

// Batch is one GetTaggedIngredients call and its records.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Records   []Record
}

// Record is one decoded ingredient line.
type Record struct {
	Position int // 0-based position within the batch
	Input    string
	Score    float64
	Name     string
	Unit     string
	Qty      float64
}

// BatchSummary is a batch without its records.
type BatchSummary struct {
	ID          string
	CreatedAt   time.Time
	RecordCount int
}
