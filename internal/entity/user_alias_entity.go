package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserAlias maps a nickname people use in questions ("Vova", "the
// admin") to a stable speaker id from the archive.
type UserAlias struct {
	Id        uuid.UUID
	Alias     string
	UserId    string
	CreatedAt time.Time
}
