package implementation

import (
	"context"
	"time"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/mapper"
	"chat-archivist-be/internal/model"
	"chat-archivist-be/internal/repository/contract"
	"chat-archivist-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageEmbeddingMapper
}

func NewMessageEmbeddingRepository(db *gorm.DB) contract.MessageEmbeddingRepository {
	return &MessageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageEmbeddingMapper(),
	}
}

func (r *MessageEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.MessageEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(embeddings)
	// Re-indexing replaces vectors in place by their stable vector id.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vector_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, 200).Error
}

func (r *MessageEmbeddingRepositoryImpl) DeleteByMessageId(ctx context.Context, messageId int64) error {
	return r.db.WithContext(ctx).
		Where("message_id = ?", messageId).
		Delete(&model.MessageEmbedding{}).Error
}

func (r *MessageEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageEmbedding, error) {
	var models []*model.MessageEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MessageEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore joins messages so speaker/date filters are
// applied in SQL and each hit carries its speaker metadata. Cosine
// distance in pgvector is 1 - cosine_similarity, so similarity is
// computed as 1 - (embedding_value <=> query_vector).
func (r *MessageEmbeddingRepositoryImpl) SearchSimilarWithScore(
	ctx context.Context,
	embedding []float32,
	limit int,
	threshold float64,
	filters contract.VectorFilters,
) ([]*contract.ScoredMessageEmbedding, error) {
	if limit <= 0 {
		limit = 15
	}

	type result struct {
		model.MessageEmbedding
		Similarity  float64
		UserId      string
		Username    string
		DisplayName string
		Timestamp   time.Time
		IsForwarded bool
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("message_embeddings").
		Select("message_embeddings.*, messages.user_id, messages.username, messages.display_name, messages.timestamp, messages.is_forwarded, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN messages ON messages.id = message_embeddings.message_id").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	if filters.SpeakerId != "" {
		query = query.Where("messages.user_id = ?", filters.SpeakerId)
	}
	if filters.DateFrom != nil {
		query = query.Where("messages.timestamp >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("messages.timestamp <= ?", *filters.DateTo)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMessageEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMessageEmbedding{
			Embedding: r.mapper.ToEntity(&res.MessageEmbedding),
			Message: &entity.Message{
				Id:          res.MessageId,
				UserId:      res.UserId,
				Username:    res.Username,
				DisplayName: res.DisplayName,
				Timestamp:   res.Timestamp,
				IsForwarded: res.IsForwarded,
				Text:        res.Text,
			},
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
