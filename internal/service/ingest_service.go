// FILE: internal/service/ingest_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/pkg/logger"
	"chat-archivist-be/internal/repository/unitofwork"
	"chat-archivist-be/pkg/events"
	"chat-archivist-be/pkg/nats"
)

type IIngestService interface {
	ImportExport(ctx context.Context, raw []byte) (*dto.ImportExportResponse, error)
	Stats(ctx context.Context) (*dto.ArchiveStatsResponse, error)
	ListImports(ctx context.Context) ([]dto.ImportExportResponse, error)
	CreateAlias(ctx context.Context, req *dto.CreateAliasRequest) (*dto.AliasResponse, error)
	ListAliases(ctx context.Context) ([]dto.AliasResponse, error)
	DeleteAlias(ctx context.Context, alias string) error
}

type ingestService struct {
	uowFactory     unitofwork.RepositoryFactory
	publisher      IPublisherService
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewIngestService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		uowFactory:     uowFactory,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// --- Export file shapes ---

type telegramExport struct {
	Name     string            `json:"name"`
	Messages []telegramMessage `json:"messages"`
}

type telegramMessage struct {
	Id            int64           `json:"id"`
	Type          string          `json:"type"`
	Date          string          `json:"date"`
	From          string          `json:"from"`
	FromId        string          `json:"from_id"`
	ForwardedFrom json.RawMessage `json:"forwarded_from"`
	Text          json.RawMessage `json:"text"`
}

// ImportExport parses a chat export file, stores the messages it has
// not seen before and queues every new message for embedding.
func (s *ingestService) ImportExport(ctx context.Context, raw []byte) (*dto.ImportExportResponse, error) {
	var export telegramExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("invalid export file: %w", err)
	}

	parsed, skipped := s.parseMessages(export.Messages)
	s.logger.Info("ingest", "Export parsed", map[string]interface{}{
		"chat":    export.Name,
		"total":   len(export.Messages),
		"parsed":  len(parsed),
		"skipped": skipped,
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)

	ids := make([]int64, len(parsed))
	for i, m := range parsed {
		ids[i] = m.Id
	}
	existing, err := uow.MessageRepository().ExistingIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	var fresh []*entity.Message
	for _, m := range parsed {
		if !existing[m.Id] {
			fresh = append(fresh, m)
		}
	}

	if err := uow.MessageRepository().CreateBulk(ctx, fresh); err != nil {
		return nil, err
	}

	record := &entity.Export{
		ChatName:     export.Name,
		MessageCount: len(parsed),
		NewCount:     len(fresh),
		SkippedCount: skipped + (len(parsed) - len(fresh)),
		CreatedAt:    time.Now(),
	}
	if err := uow.ExportRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	for _, m := range fresh {
		if err := s.publisher.PublishEmbedMessage(ctx, m.Id); err != nil {
			s.logger.Warn("ingest", "Failed to queue embed job", map[string]interface{}{
				"message_id": m.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		event := events.NewArchiveImported(record.Id.String(), record.NewCount, record.SkippedCount)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("ingest", "Failed to publish imported event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.ImportExportResponse{
		ExportId:     record.Id,
		ChatName:     record.ChatName,
		MessageCount: record.MessageCount,
		NewCount:     record.NewCount,
		SkippedCount: record.SkippedCount,
	}, nil
}

func (s *ingestService) Stats(ctx context.Context) (*dto.ArchiveStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats, err := uow.MessageRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ArchiveStatsResponse{
		MessageCount:  stats.MessageCount,
		EmbeddedCount: stats.EmbeddedCount,
		SpeakerCount:  stats.SpeakerCount,
		OldestMessage: stats.OldestMessage,
		NewestMessage: stats.NewestMessage,
	}, nil
}

func (s *ingestService) ListImports(ctx context.Context) ([]dto.ImportExportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	exports, err := uow.ExportRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportExportResponse, len(exports))
	for i, e := range exports {
		out[i] = dto.ImportExportResponse{
			ExportId:     e.Id,
			ChatName:     e.ChatName,
			MessageCount: e.MessageCount,
			NewCount:     e.NewCount,
			SkippedCount: e.SkippedCount,
		}
	}
	return out, nil
}

func (s *ingestService) CreateAlias(ctx context.Context, req *dto.CreateAliasRequest) (*dto.AliasResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	alias := &entity.UserAlias{
		Alias:     req.Alias,
		UserId:    req.UserId,
		CreatedAt: time.Now(),
	}
	if err := uow.UserAliasRepository().Create(ctx, alias); err != nil {
		return nil, err
	}
	return &dto.AliasResponse{Alias: alias.Alias, UserId: alias.UserId}, nil
}

func (s *ingestService) ListAliases(ctx context.Context) ([]dto.AliasResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	aliases, err := uow.UserAliasRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AliasResponse, len(aliases))
	for i, a := range aliases {
		out[i] = dto.AliasResponse{Alias: a.Alias, UserId: a.UserId}
	}
	return out, nil
}

func (s *ingestService) DeleteAlias(ctx context.Context, alias string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserAliasRepository().Delete(ctx, alias)
}

// parseMessages converts export entries to entities, skipping service
// messages and anything without usable text.
func (s *ingestService) parseMessages(raw []telegramMessage) ([]*entity.Message, int) {
	var parsed []*entity.Message
	skipped := 0

	for _, m := range raw {
		if m.Type != "message" {
			skipped++
			continue
		}
		text := extractText(m.Text)
		if strings.TrimSpace(text) == "" {
			skipped++
			continue
		}

		timestamp, err := parseExportDate(m.Date)
		if err != nil {
			skipped++
			continue
		}

		parsed = append(parsed, &entity.Message{
			Id:          m.Id,
			UserId:      strings.TrimPrefix(m.FromId, "user"),
			DisplayName: m.From,
			Text:        text,
			Timestamp:   timestamp,
			IsForwarded: len(m.ForwardedFrom) > 0 && string(m.ForwardedFrom) != "null",
			Metadata: map[string]interface{}{
				"from_id": m.FromId,
			},
			CreatedAt: time.Now(),
		})
	}
	return parsed, skipped
}

// extractText handles both forms the export uses: a plain string, or an
// array mixing strings with {"type": ..., "text": ...} entities.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range parts {
		var str string
		if err := json.Unmarshal(part, &str); err == nil {
			sb.WriteString(str)
			continue
		}
		var ent struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(part, &ent); err == nil {
			sb.WriteString(ent.Text)
		}
	}
	return sb.String()
}

func parseExportDate(s string) (time.Time, error) {
	// Export timestamps have no zone, e.g. "2023-04-12T19:03:04".
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
