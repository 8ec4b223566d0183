package events

import "time"

const (
	TypeArchiveImported = "ARCHIVE_IMPORTED"
	TypeArchiveIndexed  = "ARCHIVE_INDEXED"
)

// NewArchiveImported fires after an export file was ingested.
func NewArchiveImported(exportId string, newCount, skippedCount int) Event {
	return BaseEvent{
		Type: TypeArchiveImported,
		Data: map[string]interface{}{
			"export_id":     exportId,
			"new_count":     newCount,
			"skipped_count": skippedCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewArchiveIndexed fires after a batch of messages got embeddings.
func NewArchiveIndexed(messageId int64, chunkCount int) Event {
	return BaseEvent{
		Type: TypeArchiveIndexed,
		Data: map[string]interface{}{
			"message_id":  messageId,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
