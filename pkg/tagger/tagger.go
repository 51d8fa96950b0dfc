package tagger

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tagger/pkg/tagger/decode"
	"github.com/cognicore/tagger/pkg/tagger/ingest"
	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/labeler"
	"github.com/cognicore/tagger/pkg/tagger/lexicon"
	"github.com/cognicore/tagger/pkg/tagger/store"
)

// Tagger is the main facade: it prepares lines, calls the labeler and
// decodes the answer into ingredient records.
type Tagger struct {
	pipeline *ingest.Pipeline
	labeler  labeler.Labeler
	decoder  *decode.Decoder
	store    store.Store

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Options configures a Tagger instance
type Options struct {
	Pipeline *ingest.Pipeline // defaults to ingest.NewPipeline()
	Labeler  labeler.Labeler  // required
	Lexicon  *lexicon.Lexicon // unit singularization; nil uses the built-in table
	Store    store.Store      // optional, used by TagAndStore
}

// New creates a Tagger with the given dependencies
func New(opts Options) *Tagger {
	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = ingest.NewPipeline()
	}
	return &Tagger{
		pipeline: pipeline,
		labeler:  opts.Labeler,
		decoder:  decode.NewDecoder(opts.Lexicon),
		store:    opts.Store,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

// Close cleanly shuts down the Tagger instance
func (t *Tagger) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}

// Result is a decoded ingredient together with the input line it came from.
type Result struct {
	Input string `json:"input"`
	decode.Ingredient
}

// Export renders lines in the labeler's request format.
func (t *Tagger) Export(lines []string) string {
	return t.pipeline.Export(lines)
}

// GetTaggedIngredients runs lines through normalize → tokenize → features,
// labels them in one batch call and decodes the response. Lines without
// any tokens are dropped and produce no result.
func (t *Tagger) GetTaggedIngredients(ctx context.Context, lines []string) ([]Result, error) {
	if t.labeler == nil {
		return nil, fmt.Errorf("tagger: no labeler configured: %w", internalerr.ErrLabelerUnavailable)
	}

	// 1. Prepare, remembering which inputs produced tokens
	var (
		kept      []string
		processed []ingest.ProcessedLine
	)
	for _, line := range lines {
		p := t.pipeline.Process(line)
		if len(p.Tokens) == 0 {
			continue
		}
		kept = append(kept, line)
		processed = append(processed, p)
	}
	if len(kept) == 0 {
		return []Result{}, nil
	}

	// 2. Label the whole batch
	response, err := t.labeler.Label(ctx, ingest.Format(processed))
	if err != nil {
		return nil, fmt.Errorf("label batch: %w", err)
	}

	// 3. Decode
	records, err := t.decoder.DecodeStream(strings.NewReader(response))
	if err != nil {
		return nil, fmt.Errorf("decode labeler response: %w", err)
	}
	if len(records) != len(kept) {
		return nil, fmt.Errorf("labeler returned %d sequences for %d lines: %w",
			len(records), len(kept), internalerr.ErrMalformedStream)
	}

	results := make([]Result, len(records))
	for i, rec := range records {
		results[i] = Result{Input: kept[i], Ingredient: rec}
	}
	return results, nil
}

// TagAndStore tags lines and saves the results as a new batch. It returns
// the batch ID alongside the results.
func (t *Tagger) TagAndStore(ctx context.Context, lines []string) (string, []Result, error) {
	if t.store == nil {
		return "", nil, fmt.Errorf("tagger: no store configured: %w", internalerr.ErrStoreUnavailable)
	}

	results, err := t.GetTaggedIngredients(ctx, lines)
	if err != nil {
		return "", nil, err
	}

	batch := store.Batch{
		ID:        t.newID(),
		CreatedAt: t.now(),
		Records:   make([]store.Record, len(results)),
	}
	for i, r := range results {
		batch.Records[i] = store.Record{
			Position: i,
			Input:    r.Input,
			Score:    r.Score,
			Name:     r.Name,
			Unit:     r.Unit,
			Qty:      r.Qty,
		}
	}

	if err := t.store.SaveBatch(ctx, batch); err != nil {
		return "", nil, fmt.Errorf("save batch: %w", err)
	}
	return batch.ID, results, nil
}

// Batch loads a stored batch.
func (t *Tagger) Batch(ctx context.Context, id string) (store.Batch, error) {
	if t.store == nil {
		return store.Batch{}, fmt.Errorf("tagger: no store configured: %w", internalerr.ErrStoreUnavailable)
	}
	return t.store.GetBatch(ctx, id)
}

// Batches lists stored batches, newest first.
func (t *Tagger) Batches(ctx context.Context, limit int) ([]store.BatchSummary, error) {
	if t.store == nil {
		return nil, fmt.Errorf("tagger: no store configured: %w", internalerr.ErrStoreUnavailable)
	}
	return t.store.ListBatches(ctx, limit)
}

func (t *Tagger) newID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t.now()), t.entropy).String()
}
