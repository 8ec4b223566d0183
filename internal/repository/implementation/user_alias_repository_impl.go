package implementation

import (
	"context"
	"errors"
	"strings"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/mapper"
	"chat-archivist-be/internal/model"
	"chat-archivist-be/internal/repository/contract"

	"gorm.io/gorm"
)

type UserAliasRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserAliasMapper
}

func NewUserAliasRepository(db *gorm.DB) contract.UserAliasRepository {
	return &UserAliasRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserAliasMapper(),
	}
}

func (r *UserAliasRepositoryImpl) Create(ctx context.Context, alias *entity.UserAlias) error {
	m := r.mapper.ToModel(alias)
	m.Alias = strings.ToLower(m.Alias)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*alias = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserAliasRepositoryImpl) FindByAlias(ctx context.Context, alias string) (*entity.UserAlias, error) {
	var m model.UserAlias
	err := r.db.WithContext(ctx).
		Where("alias = ?", strings.ToLower(alias)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserAliasRepositoryImpl) FindAll(ctx context.Context) ([]*entity.UserAlias, error) {
	var models []*model.UserAlias
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserAliasRepositoryImpl) Delete(ctx context.Context, alias string) error {
	return r.db.WithContext(ctx).
		Where("alias = ?", strings.ToLower(alias)).
		Delete(&model.UserAlias{}).Error
}
