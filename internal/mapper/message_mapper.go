package mapper

import (
	"encoding/json"
	"time"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/model"

	"gorm.io/datatypes"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(e *model.Message) *entity.Message {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Metadata is free-form export payload; a corrupt blob is not
		// worth failing a read over.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.Message{
		Id:          e.Id,
		UserId:      e.UserId,
		Username:    e.Username,
		DisplayName: e.DisplayName,
		Text:        e.Text,
		Timestamp:   e.Timestamp,
		IsForwarded: e.IsForwarded,
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *MessageMapper) ToModel(e *entity.Message) *model.Message {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Message{
		Id:          e.Id,
		UserId:      e.UserId,
		Username:    e.Username,
		DisplayName: e.DisplayName,
		Text:        e.Text,
		Timestamp:   e.Timestamp,
		IsForwarded: e.IsForwarded,
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *MessageMapper) ToEntities(messages []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(messages))
	for i, e := range messages {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *MessageMapper) ToModels(messages []*entity.Message) []*model.Message {
	models := make([]*model.Message, len(messages))
	for i, e := range messages {
		models[i] = m.ToModel(e)
	}
	return models
}
