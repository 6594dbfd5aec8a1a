package embedder

import "context"

// Chunk is one embeddable span of a resource with its vector.
type Chunk struct {
	Text   string
	Vector []float32
}

// Generator turns raw content into an ordered list of (chunk, vector) pairs.
// Splitting strategy belongs to the generator, not its callers; chunks
// concatenated in order reconstruct the input content.
type Generator interface {
	GenerateEmbeddings(ctx context.Context, content string) ([]Chunk, error)
}
