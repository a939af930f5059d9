package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/pdf-rag-be/database"
	"github.com/tieubaoca/pdf-rag-be/types"
)

const DefaultTopK = 5

// QueryService answers free-text questions against the vector index.
type QueryService struct {
	embedder Embedder
	vectorDB database.VectorDatabase
}

func NewQueryService(embedder Embedder, vectorDB database.VectorDatabase) (*QueryService, error) {
	if embedder.Dimension() != vectorDB.Dimension() {
		return nil, fmt.Errorf("embedder dimension %d does not match index dimension %d",
			embedder.Dimension(), vectorDB.Dimension())
	}
	return &QueryService{
		embedder: embedder,
		vectorDB: vectorDB,
	}, nil
}

// Query embeds the question and returns the topK nearest chunks, highest
// score first. Zero matches is an empty result list, not an error; a
// failing embed or store call is.
func (s *QueryService) Query(ctx context.Context, question string, topK int) (*types.QueryResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	matches, err := s.vectorDB.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector store query failed: %w", err)
	}

	results := make([]types.QueryResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, types.QueryResult{
			Score:  match.Score,
			Text:   match.Text,
			Source: match.Metadata.Source,
		})
	}
	return &types.QueryResponse{
		Query:   question,
		Results: results,
	}, nil
}
