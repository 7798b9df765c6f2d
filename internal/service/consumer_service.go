package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/unitofwork"
	"ai-travelplanner-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const memoryDocsKeep = 100

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishMemoryDocMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal memory doc message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		log.Printf("[ERROR] Invalid user id in memory doc message: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Embedding memory doc for user %s", userId)

	vector, err := cs.embeddingProvider.Embed(ctx, payload.Content)
	if err != nil {
		log.Printf("[ERROR] Failed to embed memory doc for user %s: %v", userId, err)
		msg.Nack() // Retriable
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to start transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	doc := &entity.UserMemoryDoc{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     payload.Title,
		Source:    payload.Source,
		Content:   payload.Content,
		Embedding: vector,
		CreatedAt: time.Now(),
	}
	if err := uow.UserMemoryDocRepository().Create(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to save memory doc for user %s: %v", userId, err)
		msg.Nack()
		return
	}

	if err := uow.UserMemoryDocRepository().Prune(ctx, userId, memoryDocsKeep); err != nil {
		log.Printf("[ERROR] Failed to prune memory docs for user %s: %v", userId, err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit memory doc for user %s: %v", userId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
