package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	batches map[string]store.Batch
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{batches: make(map[string]store.Batch)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveBatch inserts or replaces a batch, keyed by ID.
func (s *Store) SaveBatch(ctx context.Context, b store.Batch) error {
	if b.ID == "" {
		return fmt.Errorf("save batch: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = copyBatch(b)
	return nil
}

// GetBatch returns a batch by ID.
func (s *Store) GetBatch(ctx context.Context, id string) (store.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.batches[id]
	if !ok {
		return store.Batch{}, fmt.Errorf("batch %s: %w", id, internalerr.ErrNotFound)
	}
	return copyBatch(b), nil
}

// ListBatches returns up to limit batches, newest first.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]store.BatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.BatchSummary, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, store.BatchSummary{
			ID:          b.ID,
			CreatedAt:   b.CreatedAt,
			RecordCount: len(b.Records),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyBatch(b store.Batch) store.Batch {
	b.Records = append([]store.Record(nil), b.Records...)
	return b
}
