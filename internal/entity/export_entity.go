package entity

import (
	"time"

	"github.com/google/uuid"
)

// Export records one ingested chat export file and its import stats.
type Export struct {
	Id           uuid.UUID
	ChatName     string
	MessageCount int
	NewCount     int
	SkippedCount int
	CreatedAt    time.Time
}
