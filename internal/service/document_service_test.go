package service

import (
	"context"
	"testing"

	"ai-research-assistant-be/internal/dto"
	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/internal/pkg/serverutils"
	"ai-research-assistant-be/internal/repository/contract"
	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbeddingProvider struct {
	values []float32
}

func (p *stubEmbeddingProvider) Generate(text string, taskType string) (*embedding.Response, error) {
	return &embedding.Response{Embedding: embedding.ResponseEmbedding{Values: p.values}}, nil
}

type capturingChunkRepository struct {
	contract.DocumentChunkRepository

	gotLimit      int
	gotUserId     string
	gotDocumentId *uuid.UUID
	results       []*contract.ScoredDocumentChunk
}

func (r *capturingChunkRepository) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId string, threshold float64, documentId *uuid.UUID) ([]*contract.ScoredDocumentChunk, error) {
	r.gotLimit = limit
	r.gotUserId = userId
	r.gotDocumentId = documentId
	return r.results, nil
}

type stubUnitOfWork struct {
	unitofwork.UnitOfWork

	chunks contract.DocumentChunkRepository
}

func (u *stubUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunks
}

type stubRepositoryFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *stubRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newSearchFixture(t *testing.T) (*capturingChunkRepository, IDocumentService) {
	t.Helper()

	docId := uuid.New()
	repo := &capturingChunkRepository{
		results: []*contract.ScoredDocumentChunk{
			{
				Chunk:      &entity.DocumentChunk{DocumentId: docId, Content: "attention is all you need", ChunkIndex: 2},
				FileName:   "paper-notes.md",
				Similarity: 0.91,
			},
		},
	}
	svc := NewDocumentService(
		&stubRepositoryFactory{uow: &stubUnitOfWork{chunks: repo}},
		nil,
		&stubEmbeddingProvider{values: []float32{0.1, 0.2}},
		"user-1",
		1024,
		logger.NewNopLogger(),
	)
	return repo, svc
}

func TestSemanticSearchWithoutDocumentFilter(t *testing.T) {
	repo, svc := newSearchFixture(t)

	res, err := svc.SemanticSearch(context.Background(), dto.SemanticSearchRequest{Query: "attention"})
	require.NoError(t, err)

	assert.Nil(t, repo.gotDocumentId)
	assert.Equal(t, 5, repo.gotLimit)
	assert.Equal(t, "user-1", repo.gotUserId)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "paper-notes.md", res.Results[0].FileName)
	assert.InDelta(t, 0.91, res.Results[0].Similarity, 1e-9)
}

func TestSemanticSearchScopedToDocument(t *testing.T) {
	repo, svc := newSearchFixture(t)
	docId := uuid.New()

	_, err := svc.SemanticSearch(context.Background(), dto.SemanticSearchRequest{
		Query:      "attention",
		Limit:      3,
		DocumentId: docId.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.gotDocumentId)
	assert.Equal(t, docId, *repo.gotDocumentId)
	assert.Equal(t, 3, repo.gotLimit)
}

func TestSemanticSearchRejectsMalformedDocumentId(t *testing.T) {
	_, svc := newSearchFixture(t)

	_, err := svc.SemanticSearch(context.Background(), dto.SemanticSearchRequest{
		Query:      "attention",
		DocumentId: "not-a-uuid",
	})
	assert.Error(t, err)
}

func TestSemanticSearchRequestDocumentIdValidation(t *testing.T) {
	err := serverutils.ValidateRequest(dto.SemanticSearchRequest{
		Query:      "attention",
		DocumentId: "not-a-uuid",
	})
	assert.Error(t, err)

	err = serverutils.ValidateRequest(dto.SemanticSearchRequest{
		Query:      "attention",
		DocumentId: uuid.NewString(),
	})
	assert.NoError(t, err)
}
