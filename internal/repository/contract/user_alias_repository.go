package contract

import (
	"context"

	"chat-archivist-be/internal/entity"
)

type UserAliasRepository interface {
	Create(ctx context.Context, alias *entity.UserAlias) error
	FindByAlias(ctx context.Context, alias string) (*entity.UserAlias, error)
	FindAll(ctx context.Context) ([]*entity.UserAlias, error)
	Delete(ctx context.Context, alias string) error
}
