package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-research-assistant-be/internal/dto"
	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/internal/repository/specification"
	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/pkg/embedding"
	"ai-research-assistant-be/pkg/events"
	pkgNats "ai-research-assistant-be/pkg/nats"
	"ai-research-assistant-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	eventPublisher    *pkgNats.Publisher
	chunkSize         int
	chunkOverlap      int
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	eventPublisher *pkgNats.Publisher,
	chunkSize int,
	chunkOverlap int,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
		log:               log,
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
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("document.consumer", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("document.consumer", "processing document embedding", map[string]interface{}{
		"document_id": payload.DocumentId.String(),
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.log.Error("document.consumer", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack() // Retriable
		return
	}
	if document == nil {
		cs.log.Warn("document.consumer", "document not found, dropping message", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack() // Document deleted? Ack.
		return
	}

	document.Status = entity.DocumentStatusProcessing
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		cs.log.Error("document.consumer", "failed to mark document processing", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	chunks := utils.SplitText(payload.Content, cs.chunkSize, cs.chunkOverlap)
	cs.log.Info("document.consumer", "content split into chunks", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(chunks),
	})

	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.log.Error("document.consumer", "failed to generate chunk embedding", map[string]interface{}{
				"document_id": document.Id.String(),
				"chunk_index": i,
				"error":       err.Error(),
			})
			cs.markFailed(ctx, uow, document)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			Content:    chunk,
			ChunkIndex: i,
			Embedding:  res.Embedding.Values,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("document.consumer", "failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		cs.log.Error("document.consumer", "failed to delete old chunks", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		cs.log.Error("document.consumer", "failed to create chunks", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	document.Status = entity.DocumentStatusIndexed
	document.ChunkCount = len(newChunks)
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		cs.log.Error("document.consumer", "failed to mark document indexed", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.log.Error("document.consumer", "failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIndexedEvent(document.Id.String(), len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.log.Warn("document.consumer", "failed to publish document indexed event", map[string]interface{}{
				"document_id": document.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	cs.log.Info("document.consumer", "document indexed", map[string]interface{}{
		"document_id": document.Id.String(),
		"chunks":      len(newChunks),
	})
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, document *entity.Document) {
	document.Status = entity.DocumentStatusFailed
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		cs.log.Error("document.consumer", "failed to mark document failed", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
	}
}
