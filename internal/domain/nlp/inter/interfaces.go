package inter

import "context"

// Embedder turns text into semantic vectors. The model behind it is a frozen
// external dependency; the classifier only assumes vectors from the same
// embedder are comparable by cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
