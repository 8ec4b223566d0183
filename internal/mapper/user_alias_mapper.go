package mapper

import (
	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/model"
)

type UserAliasMapper struct{}

func NewUserAliasMapper() *UserAliasMapper {
	return &UserAliasMapper{}
}

func (m *UserAliasMapper) ToEntity(e *model.UserAlias) *entity.UserAlias {
	if e == nil {
		return nil
	}
	return &entity.UserAlias{
		Id:        e.Id,
		Alias:     e.Alias,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *UserAliasMapper) ToModel(e *entity.UserAlias) *model.UserAlias {
	if e == nil {
		return nil
	}
	return &model.UserAlias{
		Id:        e.Id,
		Alias:     e.Alias,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
	}
}

func (m *UserAliasMapper) ToEntities(aliases []*model.UserAlias) []*entity.UserAlias {
	entities := make([]*entity.UserAlias, len(aliases))
	for i, e := range aliases {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
