package database

import (
	"context"

	"github.com/tieubaoca/pdf-rag-be/types"
)

// VectorEntry is one (id, vector, metadata) triple to upsert. Re-upserting
// an existing id overwrites it.
type VectorEntry struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata types.ChunkMetadata
}

// VectorMatch is one ranked query result. Text and metadata fields are
// empty when the stored object does not carry them.
type VectorMatch struct {
	Score    float32
	Text     string
	Metadata types.ChunkMetadata
}

// VectorDatabase is the keyed nearest-neighbor store the pipelines write
// to and read from.
type VectorDatabase interface {
	// Dimension is the vector dimension the index was configured with.
	// Embedders are checked against it when the pipelines are built.
	Dimension() int
	// EnsureIndex creates the index if it does not exist. Idempotent.
	EnsureIndex(ctx context.Context) error
	// ReInit drops and recreates the index.
	ReInit(ctx context.Context) error
	// UpsertVectors writes entries in batches of at most BatchSize per
	// network call. A failed batch fails the whole call; earlier batches
	// stay committed.
	UpsertVectors(ctx context.Context, entries []VectorEntry) error
	// Query returns up to topK matches sorted by descending score.
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
}

// splitBatches partitions entries into consecutive groups of at most size.
func splitBatches(entries []VectorEntry, size int) [][]VectorEntry {
	if size <= 0 || len(entries) == 0 {
		return nil
	}
	batches := make([][]VectorEntry, 0, (len(entries)+size-1)/size)
	for i := 0; i < len(entries); i += size {
		end := i + size
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, entries[i:end])
	}
	return batches
}
