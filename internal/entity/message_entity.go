package entity

import (
	"time"
)

// Message is one archived chat message, keyed by its id from the
// source export.
type Message struct {
	Id          int64
	UserId      string
	Username    string
	DisplayName string
	Text        string
	Timestamp   time.Time
	IsForwarded bool
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
