package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/repository"
	"github.com/tieubaoca/pdf-rag-be/types"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	return f.text, f.err
}

type fakeEmbedder struct {
	dimension int
	err       error
	calls     int
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vector := make([]float32, f.dimension)
	vector[0] = float32(len(text))
	return vector, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }

type fakeVectorDB struct {
	dimension int
	upsertErr error
	queryErr  error
	matches   []database.VectorMatch
	upserted  []database.VectorEntry
}

func (f *fakeVectorDB) Dimension() int { return f.dimension }

func (f *fakeVectorDB) EnsureIndex(ctx context.Context) error { return nil }

func (f *fakeVectorDB) ReInit(ctx context.Context) error { return nil }

func (f *fakeVectorDB) UpsertVectors(ctx context.Context, entries []database.VectorEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, entries...)
	return nil
}

func (f *fakeVectorDB) Query(ctx context.Context, vector []float32, topK int) ([]database.VectorMatch, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if topK < len(f.matches) {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

type fakeDocumentRepo struct {
	records   []*types.IngestRecord
	createErr error
}

func (f *fakeDocumentRepo) CreateIngestRecord(ctx context.Context, record *types.IngestRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeDocumentRepo) GetBySource(ctx context.Context, source string) (*types.IngestRecord, error) {
	for _, r := range f.records {
		if r.Source == source {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDocumentRepo) ListIngestRecords(ctx context.Context, limit, offset int64) ([]*types.IngestRecord, error) {
	return f.records, nil
}

func (f *fakeDocumentRepo) DeleteBySource(ctx context.Context, source string) error {
	return nil
}

func newTestIngestService(t *testing.T, extractor TextExtractor, embedder Embedder, vectorDB database.VectorDatabase, repo *fakeDocumentRepo) *IngestService {
	t.Helper()
	chunker := NewChunkService(types.DocumentServiceConfig{MaxTokens: 5, OverlapEnabled: true})
	var docRepo repository.DocumentRepo
	if repo != nil {
		docRepo = repo
	}
	svc, err := NewIngestService(extractor, chunker, embedder, vectorDB, docRepo, "fr")
	require.NoError(t, err)
	return svc
}

func TestNewIngestServiceDimensionMismatch(t *testing.T) {
	chunker := NewChunkService(types.DocumentServiceConfig{MaxTokens: 500})
	embedder := &fakeEmbedder{dimension: 300}
	vectorDB := &fakeVectorDB{dimension: 1536}

	_, err := NewIngestService(&fakeExtractor{}, chunker, embedder, vectorDB, nil, "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestProcessDocument(t *testing.T) {
	extractor := &fakeExtractor{text: "Le chat dort. Le chien court. Les oiseaux chantent."}
	embedder := &fakeEmbedder{dimension: 300}
	vectorDB := &fakeVectorDB{dimension: 300}
	svc := newTestIngestService(t, extractor, embedder, vectorDB, nil)

	docs, err := svc.ProcessDocument(context.Background(), "animaux.pdf", types.UploadRequest{Source: "animaux.pdf"})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("animaux.pdf:chunk_%d", i), doc.ID)
		assert.Equal(t, i, doc.Metadata.ChunkIndex)
		assert.Equal(t, "fr", doc.Metadata.Language)
		assert.Equal(t, "animaux.pdf", doc.Metadata.Source)
		assert.Equal(t, 3, doc.Metadata.TotalChunks)
		assert.Equal(t, ChunkTypeSemantic, doc.Metadata.ChunkType)
		assert.Len(t, doc.Vector, 300)
	}
	assert.Equal(t, 3, embedder.calls)
}

func TestProcessDocumentDefaultsSourceToPath(t *testing.T) {
	extractor := &fakeExtractor{text: "Une seule phrase."}
	svc := newTestIngestService(t, extractor, &fakeEmbedder{dimension: 300}, &fakeVectorDB{dimension: 300}, nil)

	docs, err := svc.ProcessDocument(context.Background(), "uploads/doc.pdf", types.UploadRequest{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "uploads/doc.pdf", docs[0].Metadata.Source)
	assert.Equal(t, "uploads/doc.pdf:chunk_0", docs[0].ID)
}

func TestProcessDocumentNoUsableText(t *testing.T) {
	extractor := &fakeExtractor{err: fmt.Errorf("scan.pdf: %w", ErrNoUsableText)}
	embedder := &fakeEmbedder{dimension: 300}
	vectorDB := &fakeVectorDB{dimension: 300}
	svc := newTestIngestService(t, extractor, embedder, vectorDB, nil)

	_, err := svc.ProcessDocument(context.Background(), "scan.pdf", types.UploadRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUsableText)
	// Nothing was embedded or stored for an unreadable document
	assert.Zero(t, embedder.calls)
	assert.Empty(t, vectorDB.upserted)
}

func TestProcessDocumentEmptyChunkSet(t *testing.T) {
	extractor := &fakeExtractor{text: " \n \t "}
	embedder := &fakeEmbedder{dimension: 300}
	svc := newTestIngestService(t, extractor, embedder, &fakeVectorDB{dimension: 300}, nil)

	_, err := svc.ProcessDocument(context.Background(), "blank.pdf", types.UploadRequest{})
	assert.ErrorIs(t, err, ErrEmptyChunkSet)
	assert.Zero(t, embedder.calls)
}

func TestProcessDocumentEmbedFailure(t *testing.T) {
	extractor := &fakeExtractor{text: "Le chat dort."}
	embedder := &fakeEmbedder{dimension: 300, err: errors.New("rate limited")}
	svc := newTestIngestService(t, extractor, embedder, &fakeVectorDB{dimension: 300}, nil)

	_, err := svc.ProcessDocument(context.Background(), "doc.pdf", types.UploadRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestUpsertToStoreWrapsFailure(t *testing.T) {
	vectorDB := &fakeVectorDB{dimension: 300, upsertErr: errors.New("connection refused")}
	svc := newTestIngestService(t, &fakeExtractor{}, &fakeEmbedder{dimension: 300}, vectorDB, nil)

	err := svc.UpsertToStore(context.Background(), []types.EmbeddedChunk{
		{ID: "doc.pdf:chunk_0", Vector: make([]float32, 300)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestIngestFile(t *testing.T) {
	extractor := &fakeExtractor{text: "Le chat dort. Le chien court. Les oiseaux chantent."}
	vectorDB := &fakeVectorDB{dimension: 300}
	repo := &fakeDocumentRepo{}
	svc := newTestIngestService(t, extractor, &fakeEmbedder{dimension: 300}, vectorDB, repo)

	statusChan := make(chan types.ProcessingDocumentStatus, 16)
	record, err := svc.IngestFile(context.Background(), "animaux.pdf", types.UploadRequest{
		Source: "animaux.pdf",
		Tags:   []string{"animals"},
	}, statusChan)
	close(statusChan)
	require.NoError(t, err)

	assert.Equal(t, "animaux.pdf", record.Source)
	assert.Equal(t, 3, record.TotalChunks)
	assert.Equal(t, "fr", record.Language)
	assert.Equal(t, []string{"animals"}, record.Tags)
	assert.Len(t, vectorDB.upserted, 3)
	require.Len(t, repo.records, 1)
	assert.Equal(t, record, repo.records[0])

	var last types.ProcessingDocumentStatus
	count := 0
	for status := range statusChan {
		last = status
		count++
	}
	assert.Equal(t, 4, count) // one per chunk plus the completion event
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, 3, last.ProcessedChunks)
}

func TestIngestFileRegistryFailureIsNotFatal(t *testing.T) {
	extractor := &fakeExtractor{text: "Le chat dort."}
	repo := &fakeDocumentRepo{createErr: errors.New("mongo down")}
	svc := newTestIngestService(t, extractor, &fakeEmbedder{dimension: 300}, &fakeVectorDB{dimension: 300}, repo)

	record, err := svc.IngestFile(context.Background(), "doc.pdf", types.UploadRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, record.TotalChunks)
}

func TestIngestFileStoreFailure(t *testing.T) {
	extractor := &fakeExtractor{text: "Le chat dort."}
	vectorDB := &fakeVectorDB{dimension: 300, upsertErr: errors.New("timeout")}
	repo := &fakeDocumentRepo{}
	svc := newTestIngestService(t, extractor, &fakeEmbedder{dimension: 300}, vectorDB, repo)

	_, err := svc.IngestFile(context.Background(), "doc.pdf", types.UploadRequest{}, nil)
	assert.ErrorIs(t, err, ErrStoreFailed)
	// No registry record for a failed ingest
	assert.Empty(t, repo.records)
}
