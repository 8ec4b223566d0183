package implementation

import (
	"context"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/mapper"
	"chat-archivist-be/internal/model"
	"chat-archivist-be/internal/repository/contract"
	"chat-archivist-be/internal/repository/scope"

	"gorm.io/gorm"
)

type ExportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ExportMapper
}

func NewExportRepository(db *gorm.DB) contract.ExportRepository {
	return &ExportRepositoryImpl{
		db:     db,
		mapper: mapper.NewExportMapper(),
	}
}

func (r *ExportRepositoryImpl) Create(ctx context.Context, export *entity.Export) error {
	m := r.mapper.ToModel(export)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*export = *r.mapper.ToEntity(m)
	return nil
}

func (r *ExportRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Export, error) {
	var models []*model.Export
	if err := r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc).Find(&models).Error; err != nil {
		return nil, err
	}
	exports := make([]*entity.Export, len(models))
	for i, m := range models {
		exports[i] = r.mapper.ToEntity(m)
	}
	return exports, nil
}
