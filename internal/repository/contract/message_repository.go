package contract

import (
	"context"
	"time"

	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/repository/specification"
)

// ArchiveStats summarizes the indexed archive.
type ArchiveStats struct {
	MessageCount  int64
	EmbeddedCount int64
	SpeakerCount  int64
	OldestMessage *time.Time
	NewestMessage *time.Time
}

type MessageRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.Message) error
	ExistingIds(ctx context.Context, ids []int64) (map[int64]bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DistinctSpeakers(ctx context.Context) ([]entity.Message, error)
	Stats(ctx context.Context) (*ArchiveStats, error)
}
