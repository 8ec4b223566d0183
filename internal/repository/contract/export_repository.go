package contract

import (
	"context"

	"chat-archivist-be/internal/entity"
)

type ExportRepository interface {
	Create(ctx context.Context, export *entity.Export) error
	FindAll(ctx context.Context) ([]*entity.Export, error)
}
