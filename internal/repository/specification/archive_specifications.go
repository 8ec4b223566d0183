package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByMessageId filters by the source message id.
type ByMessageId struct {
	Id int64
}

func (s ByMessageId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.Id)
}

// ByMessageIds filters by a list of source message ids.
type ByMessageIds struct {
	Ids []int64
}

func (s ByMessageIds) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.Ids)
}

// BySpeaker filters messages by speaker id.
type BySpeaker struct {
	UserId string
}

func (s BySpeaker) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByDateRange keeps messages within the inclusive range. Nil bounds are
// open ends.
type ByDateRange struct {
	From *time.Time
	To   *time.Time
}

func (s ByDateRange) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("timestamp >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("timestamp <= ?", *s.To)
	}
	return db
}
