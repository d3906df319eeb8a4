package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, vector scoring is disabled and
// hybrid search degrades to text-only.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI-compatible inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Deterministic per call for a fixed model.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768).
	Dimensions() int
}
