package unitofwork

import (
	"context"

	"chat-archivist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MessageRepository() contract.MessageRepository
	MessageEmbeddingRepository() contract.MessageEmbeddingRepository
	UserAliasRepository() contract.UserAliasRepository
	ExportRepository() contract.ExportRepository
}
