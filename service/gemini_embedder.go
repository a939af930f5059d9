package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder embeds text through the Gemini embedContent API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	dimension int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, dimension int) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("no Gemini API key provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEmbedder{
		client:    client,
		model:     client.EmbeddingModel(modelName),
		dimension: dimension,
	}, nil
}

func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if res.Embedding == nil {
		return nil, errors.New("embedding response contains no data")
	}
	vector := res.Embedding.Values
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("embedder returned dimension %d, expected %d", len(vector), e.dimension)
	}
	return vector, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
