package model

import (
	"time"

	"gorm.io/datatypes"
)

type Message struct {
	Id          int64          `gorm:"primaryKey;autoIncrement:false"`
	UserId      string         `gorm:"index"`
	Username    string         `gorm:""`
	DisplayName string         `gorm:""`
	Text        string         `gorm:"type:text"`
	Timestamp   time.Time      `gorm:"index"`
	IsForwarded bool           `gorm:"default:false"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}
