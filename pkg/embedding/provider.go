package embedding

import "context"

// EmbeddingProvider turns text into a fixed-dimensionality vector for
// similarity search. Dimensionality is decided by the configured model and
// must match the vector columns in storage.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
