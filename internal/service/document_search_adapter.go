package service

import (
	"context"

	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/pkg/agent"
	"ai-research-assistant-be/pkg/embedding"
)

// documentSearchAdapter bridges the document chunk index into the
// workflow's retrieval fan-out.
type documentSearchAdapter struct {
	embeddingProvider embedding.Provider
	uowFactory        unitofwork.RepositoryFactory
	userId            string
}

var _ agent.DocumentSearcher = (*documentSearchAdapter)(nil)

func NewDocumentSearchAdapter(embeddingProvider embedding.Provider, uowFactory unitofwork.RepositoryFactory, userId string) agent.DocumentSearcher {
	return &documentSearchAdapter{
		embeddingProvider: embeddingProvider,
		uowFactory:        uowFactory,
		userId:            userId,
	}
}

func (a *documentSearchAdapter) Search(ctx context.Context, query string, limit int) ([]agent.DocumentChunk, error) {
	res, err := a.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := a.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, limit, a.userId, 0, nil)
	if err != nil {
		return nil, err
	}

	chunks := make([]agent.DocumentChunk, len(scored))
	for i, s := range scored {
		chunks[i] = agent.DocumentChunk{
			Text:       s.Chunk.Content,
			FileName:   s.FileName,
			ChunkIndex: s.Chunk.ChunkIndex,
			Score:      s.Similarity,
		}
	}
	return chunks, nil
}
