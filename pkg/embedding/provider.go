package embedding

// Task types understood by the providers. Providers that do not
// distinguish tasks ignore the hint.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// GenerateBatch embeds several texts at once. Providers with a native
	// batch endpoint use it; others fall back to sequential calls. The
	// result preserves input order.
	GenerateBatch(texts []string, taskType string) ([][]float32, error)
}

// generateSequentially is the shared fallback for providers without a
// batch endpoint.
func generateSequentially(p EmbeddingProvider, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := p.Generate(text, taskType)
		if err != nil {
			return nil, err
		}
		out[i] = res.Embedding.Values
	}
	return out, nil
}
