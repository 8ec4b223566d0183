package implementation

import (
	"context"
	"errors"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/mapper"
	"chat-archivist-be/internal/model"
	"chat-archivist-be/internal/repository/contract"
	"chat-archivist-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateBulk inserts messages, silently skipping ids already present.
// Re-importing an overlapping export is the normal case, not an error.
func (r *MessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	models := r.mapper.ToModels(messages)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(models, 500).Error
}

func (r *MessageRepositoryImpl) ExistingIds(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	var found []int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	existing := make(map[int64]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Message{}).Count(&count).Error
	return count, err
}

// DistinctSpeakers returns one row per distinct speaker for alias
// resolution.
func (r *MessageRepositoryImpl) DistinctSpeakers(ctx context.Context) ([]entity.Message, error) {
	var models []model.Message
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Distinct("user_id", "username", "display_name").
		Where("user_id <> ''").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	speakers := make([]entity.Message, len(models))
	for i := range models {
		speakers[i] = *r.mapper.ToEntity(&models[i])
	}
	return speakers, nil
}

func (r *MessageRepositoryImpl) Stats(ctx context.Context) (*contract.ArchiveStats, error) {
	stats := &contract.ArchiveStats{}

	if err := r.db.WithContext(ctx).Model(&model.Message{}).Count(&stats.MessageCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("user_id <> ''").
		Distinct("user_id").
		Count(&stats.SpeakerCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.MessageEmbedding{}).
		Distinct("message_id").
		Count(&stats.EmbeddedCount).Error; err != nil {
		return nil, err
	}

	var oldest, newest model.Message
	if stats.MessageCount > 0 {
		if err := r.db.WithContext(ctx).Order("timestamp ASC").First(&oldest).Error; err == nil {
			t := oldest.Timestamp
			stats.OldestMessage = &t
		}
		if err := r.db.WithContext(ctx).Order("timestamp DESC").First(&newest).Error; err == nil {
			t := newest.Timestamp
			stats.NewestMessage = &t
		}
	}
	return stats, nil
}
