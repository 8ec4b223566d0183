package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type MessageEmbedding struct {
	VectorId       string          `gorm:"primaryKey"`
	MessageId      int64           `gorm:"not null;index"`
	ChunkIndex     int             `gorm:"default:0"`
	Text           string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (MessageEmbedding) TableName() string {
	return "message_embeddings"
}
