package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishEmbedMessage is the embed-job payload on the internal bus.
type PublishEmbedMessage struct {
	MessageId int64 `json:"message_id"`
}

type ImportExportResponse struct {
	ExportId     uuid.UUID `json:"export_id"`
	ChatName     string    `json:"chat_name"`
	MessageCount int       `json:"message_count"`
	NewCount     int       `json:"new_count"`
	SkippedCount int       `json:"skipped_count"`
}

type ArchiveStatsResponse struct {
	MessageCount  int64      `json:"message_count"`
	EmbeddedCount int64      `json:"embedded_count"`
	SpeakerCount  int64      `json:"speaker_count"`
	OldestMessage *time.Time `json:"oldest_message,omitempty"`
	NewestMessage *time.Time `json:"newest_message,omitempty"`
}

type CreateAliasRequest struct {
	Alias  string `json:"alias" validate:"required,min=1"`
	UserId string `json:"user_id" validate:"required"`
}

type AliasResponse struct {
	Alias  string `json:"alias"`
	UserId string `json:"user_id"`
}
