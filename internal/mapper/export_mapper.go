package mapper

import (
	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/model"
)

type ExportMapper struct{}

func NewExportMapper() *ExportMapper {
	return &ExportMapper{}
}

func (m *ExportMapper) ToEntity(e *model.Export) *entity.Export {
	if e == nil {
		return nil
	}
	return &entity.Export{
		Id:           e.Id,
		ChatName:     e.ChatName,
		MessageCount: e.MessageCount,
		NewCount:     e.NewCount,
		SkippedCount: e.SkippedCount,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *ExportMapper) ToModel(e *entity.Export) *model.Export {
	if e == nil {
		return nil
	}
	return &model.Export{
		Id:           e.Id,
		ChatName:     e.ChatName,
		MessageCount: e.MessageCount,
		NewCount:     e.NewCount,
		SkippedCount: e.SkippedCount,
		CreatedAt:    e.CreatedAt,
	}
}
