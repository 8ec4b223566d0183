package contract

import (
	"context"
	"time"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/repository/specification"
)

// ScoredMessageEmbedding pairs an embedding row with the joined source
// message and its similarity to the query vector.
type ScoredMessageEmbedding struct {
	Embedding  *entity.MessageEmbedding
	Message    *entity.Message
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// VectorFilters narrows a similarity search server-side.
type VectorFilters struct {
	SpeakerId string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type MessageEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.MessageEmbedding) error
	DeleteByMessageId(ctx context.Context, messageId int64) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the closest embeddings with their
	// cosine similarity, already filtered by speaker/date constraints.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, filters VectorFilters) ([]*ScoredMessageEmbedding, error)
}
