package entity

import "time"

// MessageEmbedding is one stored vector. A short message produces a
// single row with vector id "msg_{id}"; long messages are chunked into
// "msg_{id}_c{n}" rows.
type MessageEmbedding struct {
	VectorId       string
	MessageId      int64
	ChunkIndex     int
	Text           string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
