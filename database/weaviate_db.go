package database

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tieubaoca/pdf-rag-be/config"
	"github.com/tieubaoca/pdf-rag-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// BatchSize caps objects per upsert network call. Transport constraint of
// the backing store, not a correctness one.
const BatchSize = 100

// chunkNamespace makes object UUIDs deterministic per entry id, so a
// re-upsert with the same id overwrites instead of duplicating.
var chunkNamespace = uuid.MustParse("8e2f1f0a-26c1-4f6c-9a36-6a2e9c7c2b41")

type WeaviateStore struct {
	client    *weaviate.Client
	className string
	dimension int
	metric    string
}

func classObject(className, metric string) *models.Class {
	return &models.Class{
		Class: className,
		Properties: []*models.Property{
			{Name: "text", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "language", DataType: []string{"text"}},
			{Name: "chunk_index", DataType: []string{"int"}},
			{Name: "total_chunks", DataType: []string{"int"}},
			{Name: "chunk_type", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": metric,
		},
	}
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", cfg.Dimension)
	}
	metric := cfg.Metric
	if metric == "" {
		metric = "cosine"
	}
	return &WeaviateStore{
		client:    client,
		className: cfg.IndexName,
		dimension: cfg.Dimension,
		metric:    metric,
	}, nil
}

// Dimension is the vector dimension the index was configured with.
func (s *WeaviateStore) Dimension() int {
	return s.dimension
}

// EnsureIndex creates the class only when it is missing.
func (s *WeaviateStore) EnsureIndex(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %v", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(classObject(s.className, s.metric)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.className, err)
	}
	return nil
}

func (s *WeaviateStore) ReInit(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete class %s: %v", s.className, err)
	}
	err = s.client.Schema().ClassCreator().WithClass(classObject(s.className, s.metric)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.className, err)
	}
	return nil
}

// UpsertVectors writes entries in batches of at most BatchSize. A failed
// batch fails the whole call; batches already issued are not rolled back.
func (s *WeaviateStore) UpsertVectors(ctx context.Context, entries []VectorEntry) error {
	batches := splitBatches(entries, BatchSize)
	for i, batch := range batches {
		batcher := s.client.Batch().ObjectsBatcher()
		for _, entry := range batch {
			batcher = batcher.WithObjects(&models.Object{
				ID:         strfmt.UUID(uuid.NewSHA1(chunkNamespace, []byte(entry.ID)).String()),
				Class:      s.className,
				Vector:     entry.Vector,
				Properties: entryProperties(entry),
			})
		}
		resp, err := batcher.Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert batch %d/%d: %v", i+1, len(batches), err)
		}
		for _, obj := range resp {
			if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
				return fmt.Errorf("failed to upsert batch %d/%d: %v", i+1, len(batches), obj.Result.Errors.Error[0].Message)
			}
		}
		log.Printf("Upserted batch %d/%d (%d vectors)", i+1, len(batches), len(batch))
	}
	return nil
}

func entryProperties(entry VectorEntry) map[string]interface{} {
	return map[string]interface{}{
		"text":         entry.Text,
		"source":       entry.Metadata.Source,
		"language":     entry.Metadata.Language,
		"chunk_index":  entry.Metadata.ChunkIndex,
		"total_chunks": entry.Metadata.TotalChunks,
		"chunk_type":   entry.Metadata.ChunkType,
	}
}

// Query runs a nearVector search and returns up to topK matches sorted by
// descending certainty. Missing properties resolve to zero values, never
// an error.
func (s *WeaviateStore) Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error) {
	fields := []graphql.Field{
		{Name: "text"},
		{Name: "source"},
		{Name: "language"},
		{Name: "chunk_index"},
		{Name: "total_chunks"},
		{Name: "chunk_type"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("query failed: %v", result.Errors[0].Message)
	}

	var matches []VectorMatch
	if data, ok := result.Data["Get"].(map[string]interface{})[s.className].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			match := VectorMatch{
				Text: asString(obj["text"]),
				Metadata: types.ChunkMetadata{
					Source:      asString(obj["source"]),
					Language:    asString(obj["language"]),
					ChunkIndex:  asInt(obj["chunk_index"]),
					TotalChunks: asInt(obj["total_chunks"]),
					ChunkType:   asString(obj["chunk_type"]),
				},
			}
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if certainty, ok := additional["certainty"].(float64); ok {
					match.Score = float32(certainty)
				}
			}
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// Helper functions
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	// GraphQL ints arrive as float64
	f, _ := v.(float64)
	return int(f)
}
