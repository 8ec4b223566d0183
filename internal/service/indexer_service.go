// FILE: internal/service/indexer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/entity"
	"chat-archivist-be/internal/repository/specification"
	"chat-archivist-be/internal/repository/unitofwork"
	"chat-archivist-be/pkg/embedding"
	"chat-archivist-be/pkg/events"
	"chat-archivist-be/pkg/nats"
	"chat-archivist-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *nats.Publisher
	chunkSize         int
	chunkOverlap      int
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *nats.Publisher,
	chunkSize int,
	chunkOverlap int,
) IIndexerService {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 100
	}
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (s *indexerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	archived, err := uow.MessageRepository().FindOne(ctx, specification.ByMessageId{Id: payload.MessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to get message %d: %v", payload.MessageId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if archived == nil {
		log.Printf("[WARN] Message not found, dropping embed job: %d", payload.MessageId)
		msg.Ack()
		return
	}

	// Short messages become a single msg_{id} vector; only longer text
	// gets split into msg_{id}_c{n} chunks.
	var chunks []string
	if len([]rune(archived.Text)) <= s.chunkSize {
		chunks = []string{archived.Text}
	} else {
		chunks = utils.SplitText(archived.Text, s.chunkSize, s.chunkOverlap)
	}

	vectors, err := s.embeddingProvider.GenerateBatch(chunks, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to embed message %d: %v", payload.MessageId, err)
		msg.Nack()
		return
	}

	newEmbeddings := make([]*entity.MessageEmbedding, len(chunks))
	for i, chunk := range chunks {
		vectorId := fmt.Sprintf("msg_%d", archived.Id)
		if len(chunks) > 1 {
			vectorId = fmt.Sprintf("msg_%d_c%d", archived.Id, i)
		}
		newEmbeddings[i] = &entity.MessageEmbedding{
			VectorId:       vectorId,
			MessageId:      archived.Id,
			ChunkIndex:     i,
			Text:           chunk,
			EmbeddingValue: vectors[i],
			CreatedAt:      time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.MessageEmbeddingRepository().DeleteByMessageId(ctx, archived.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.MessageEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		log.Printf("[ERROR] Failed to create embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewArchiveIndexed(archived.Id, len(chunks))); err != nil {
			log.Printf("[WARN] Failed to publish indexed event: %v", err)
		}
	}

	log.Printf("[INFO] Message indexed: %d chunks for id %d", len(chunks), archived.Id)
	msg.Ack()
}
