package service

import (
	"context"
)

// Embedder maps text to a fixed-dimension vector. Identical text must
// yield an identical vector for a fixed model version.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
