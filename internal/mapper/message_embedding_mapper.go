package mapper

import (
	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type MessageEmbeddingMapper struct{}

func NewMessageEmbeddingMapper() *MessageEmbeddingMapper {
	return &MessageEmbeddingMapper{}
}

func (m *MessageEmbeddingMapper) ToEntity(e *model.MessageEmbedding) *entity.MessageEmbedding {
	if e == nil {
		return nil
	}
	return &entity.MessageEmbedding{
		VectorId:       e.VectorId,
		MessageId:      e.MessageId,
		ChunkIndex:     e.ChunkIndex,
		Text:           e.Text,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *MessageEmbeddingMapper) ToModel(e *entity.MessageEmbedding) *model.MessageEmbedding {
	if e == nil {
		return nil
	}
	return &model.MessageEmbedding{
		VectorId:       e.VectorId,
		MessageId:      e.MessageId,
		ChunkIndex:     e.ChunkIndex,
		Text:           e.Text,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *MessageEmbeddingMapper) ToEntities(embeddings []*model.MessageEmbedding) []*entity.MessageEmbedding {
	entities := make([]*entity.MessageEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *MessageEmbeddingMapper) ToModels(embeddings []*entity.MessageEmbedding) []*model.MessageEmbedding {
	models := make([]*model.MessageEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
