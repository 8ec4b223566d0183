// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"chat-archivist-be/internal/dto"
	"chat-archivist-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishEmbedMessage(ctx context.Context, messageId int64) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (s *publisherService) PublishEmbedMessage(ctx context.Context, messageId int64) error {
	payload, err := json.Marshal(dto.PublishEmbedMessage{MessageId: messageId})
	if err != nil {
		return err
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("publisher", "Failed to publish embed job", map[string]interface{}{
			"message_id": messageId,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}
