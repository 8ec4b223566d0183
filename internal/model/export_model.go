package model

import (
	"time"

	"github.com/google/uuid"
)

type Export struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatName     string    `gorm:""`
	MessageCount int       `gorm:"default:0"`
	NewCount     int       `gorm:"default:0"`
	SkippedCount int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Export) TableName() string {
	return "exports"
}
