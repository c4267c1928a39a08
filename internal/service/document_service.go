package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"ai-research-assistant-be/internal/dto"
	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/internal/repository/specification"
	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/pkg/embedding"

	"github.com/google/uuid"
)

type IDocumentService interface {
	// Upload stores the document record and queues its content for
	// chunking and embedding.
	Upload(ctx context.Context, fileName, contentType string, content []byte) (*dto.UploadDocumentResponse, error)
	GetDocuments(ctx context.Context) ([]dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, documentId uuid.UUID) error
	// SemanticSearch runs a similarity query over the user's indexed
	// chunks.
	SemanticSearch(ctx context.Context, req dto.SemanticSearchRequest) (*dto.SemanticSearchResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.Provider
	userId            string
	maxUploadBytes    int64
	log               logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.Provider,
	userId string,
	maxUploadBytes int64,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		userId:            userId,
		maxUploadBytes:    maxUploadBytes,
		log:               log,
	}
}

func (s *documentService) Upload(ctx context.Context, fileName, contentType string, content []byte) (*dto.UploadDocumentResponse, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("uploaded file %q is empty", fileName)
	}
	if int64(len(content)) > s.maxUploadBytes {
		return nil, fmt.Errorf("uploaded file %q exceeds the %d byte limit", fileName, s.maxUploadBytes)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("uploaded file %q is not valid UTF-8 text", fileName)
	}

	document := &entity.Document{
		Id:          uuid.New(),
		UserId:      s.userId,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(content)),
		Status:      entity.DocumentStatusPending,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{
		DocumentId: document.Id,
		Content:    string(content),
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		// The row exists but indexing will never run; mark it failed so
		// the client can retry the upload.
		document.Status = entity.DocumentStatusFailed
		if uerr := uow.DocumentRepository().Update(ctx, document); uerr != nil {
			s.log.Error("document.service", "failed to mark document as failed", map[string]interface{}{
				"document_id": document.Id.String(),
				"error":       uerr.Error(),
			})
		}
		return nil, err
	}

	s.log.Info("document.service", "document queued for indexing", map[string]interface{}{
		"document_id": document.Id.String(),
		"file_name":   fileName,
		"size_bytes":  document.SizeBytes,
	})

	return &dto.UploadDocumentResponse{
		Id:       document.Id,
		FileName: document.FileName,
		Status:   document.Status,
	}, nil
}

func (s *documentService) GetDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByUserID{UserID: s.userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DocumentResponse, len(documents))
	for i, d := range documents {
		result[i] = dto.DocumentResponse{
			Id:          d.Id,
			FileName:    d.FileName,
			ContentType: d.ContentType,
			SizeBytes:   d.SizeBytes,
			Status:      d.Status,
			ChunkCount:  d.ChunkCount,
			CreatedAt:   d.CreatedAt,
		}
	}
	return result, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.ByUserID{UserID: s.userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document %s not found", documentId)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *documentService) SemanticSearch(ctx context.Context, req dto.SemanticSearchRequest) (*dto.SemanticSearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	var documentFilter *uuid.UUID
	if req.DocumentId != "" {
		id, err := uuid.Parse(req.DocumentId)
		if err != nil {
			return nil, fmt.Errorf("document id %q is not a valid uuid", req.DocumentId)
		}
		documentFilter = &id
	}

	res, err := s.embeddingProvider.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, limit, s.userId, 0, documentFilter)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SemanticSearchResult, len(scored))
	for i, sc := range scored {
		results[i] = dto.SemanticSearchResult{
			DocumentId: sc.Chunk.DocumentId,
			FileName:   sc.FileName,
			ChunkIndex: sc.Chunk.ChunkIndex,
			Content:    sc.Chunk.Content,
			Similarity: sc.Similarity,
		}
	}
	return &dto.SemanticSearchResponse{Results: results}, nil
}
