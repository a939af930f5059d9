package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/repository"
	"github.com/tieubaoca/pdf-rag-be/types"
)

const ChunkTypeSemantic = "semantic"

// ErrEmptyChunkSet means extraction succeeded but normalization and
// segmentation left nothing to chunk. Treated like ErrNoUsableText.
var ErrEmptyChunkSet = errors.New("document produced no chunks")

// ErrStoreFailed wraps vector store upsert errors so callers can tell
// "storage failed" apart from "processing failed".
var ErrStoreFailed = errors.New("vector store upsert failed")

// IngestService composes extraction, chunking, embedding and storage into
// the document-ingest flow. Chunks are embedded sequentially in chunk
// order; chunk_index in the metadata preserves logical order either way.
type IngestService struct {
	extractor TextExtractor
	chunker   *ChunkService
	embedder  Embedder
	vectorDB  database.VectorDatabase
	docRepo   repository.DocumentRepo
	language  string
}

// NewIngestService wires the pipeline. The embedder dimension must match
// the store's configured dimension; a mismatch is a configuration error
// caught here, not at upsert time. docRepo may be nil when no registry is
// wanted (CLI one-shot uploads).
func NewIngestService(
	extractor TextExtractor,
	chunker *ChunkService,
	embedder Embedder,
	vectorDB database.VectorDatabase,
	docRepo repository.DocumentRepo,
	language string,
) (*IngestService, error) {
	if embedder.Dimension() != vectorDB.Dimension() {
		return nil, fmt.Errorf("embedder dimension %d does not match index dimension %d",
			embedder.Dimension(), vectorDB.Dimension())
	}
	if language == "" {
		language = "fr"
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
		docRepo:   docRepo,
		language:  language,
	}, nil
}

// ProcessDocument extracts, chunks and embeds one document. It returns
// ErrNoUsableText or ErrEmptyChunkSet without calling the embedder or the
// store; an embedding error fails the whole document.
func (s *IngestService) ProcessDocument(ctx context.Context, filePath string, req types.UploadRequest) ([]types.EmbeddedChunk, error) {
	return s.processDocument(ctx, filePath, req, nil)
}

func (s *IngestService) processDocument(ctx context.Context, filePath string, req types.UploadRequest, status chan<- types.ProcessingDocumentStatus) ([]types.EmbeddedChunk, error) {
	text, err := s.extractor.ExtractText(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", filePath, err)
	}

	chunks := s.chunker.ChunkText(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", filePath, ErrEmptyChunkSet)
	}

	source := req.Source
	if source == "" {
		source = filePath
	}

	documents := make([]types.EmbeddedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.embedder.EmbedText(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d of %s: %w", chunk.Index, source, err)
		}
		documents = append(documents, types.EmbeddedChunk{
			ID:     fmt.Sprintf("%s:chunk_%d", source, chunk.Index),
			Chunk:  chunk,
			Vector: vector,
			Metadata: types.ChunkMetadata{
				ChunkIndex:  chunk.Index,
				Language:    s.language,
				Source:      source,
				TotalChunks: len(chunks),
				ChunkType:   ChunkTypeSemantic,
			},
		})
		sendStatus(status, types.ProcessingDocumentStatus{
			Status:          "processing",
			Message:         "Embedding chunks",
			Progress:        float64(chunk.Index+1) / float64(len(chunks)),
			TotalChunks:     len(chunks),
			ProcessedChunks: chunk.Index + 1,
		})
	}
	return documents, nil
}

// UpsertToStore hands the embedded chunks to the vector store. Batching
// happens inside the adapter; a failed batch fails the call but earlier
// batches stay committed.
func (s *IngestService) UpsertToStore(ctx context.Context, documents []types.EmbeddedChunk) error {
	entries := make([]database.VectorEntry, 0, len(documents))
	for _, doc := range documents {
		entries = append(entries, database.VectorEntry{
			ID:       doc.ID,
			Text:     doc.Chunk.Text,
			Vector:   doc.Vector,
			Metadata: doc.Metadata,
		})
	}
	if err := s.vectorDB.UpsertVectors(ctx, entries); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return nil
}

// IngestFile runs the whole ingest flow for one file, streaming progress
// to status when it is non-nil, and records the ingest in the registry.
func (s *IngestService) IngestFile(ctx context.Context, filePath string, req types.UploadRequest, status chan<- types.ProcessingDocumentStatus) (*types.IngestRecord, error) {
	documents, err := s.processDocument(ctx, filePath, req, status)
	if err != nil {
		return nil, err
	}
	if err := s.UpsertToStore(ctx, documents); err != nil {
		return nil, err
	}

	record := &types.IngestRecord{
		Source:      documents[0].Metadata.Source,
		Title:       GetFileNameWithoutExt(filePath),
		Language:    s.language,
		ChunkType:   ChunkTypeSemantic,
		TotalChunks: len(documents),
		Tags:        req.Tags,
		CreatedAt:   time.Now().Unix(),
	}
	if s.docRepo != nil {
		// Vectors are already stored; a registry failure is logged, not fatal
		if err := s.docRepo.CreateIngestRecord(ctx, record); err != nil {
			log.Printf("failed to record ingest of %s: %v", record.Source, err)
		}
	}
	sendStatus(status, types.ProcessingDocumentStatus{
		Status:          "completed",
		Message:         "Done processing document",
		Progress:        1,
		TotalChunks:     len(documents),
		ProcessedChunks: len(documents),
	})
	return record, nil
}

func sendStatus(status chan<- types.ProcessingDocumentStatus, update types.ProcessingDocumentStatus) {
	if status != nil {
		status <- update
	}
}
