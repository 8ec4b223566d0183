package model

import (
	"time"

	"github.com/google/uuid"
)

type UserAlias struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Alias     string    `gorm:"uniqueIndex;not null"`
	UserId    string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserAlias) TableName() string {
	return "user_aliases"
}
