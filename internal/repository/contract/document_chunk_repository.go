package contract

import (
	"context"

	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps a chunk with its cosine similarity and the
// owning document's file name for display.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	FileName   string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	// SearchSimilarWithScore runs a cosine similarity search over the
	// user's chunks, filtered by threshold, best match first. A non-nil
	// documentId restricts the search to that document's chunks.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId string, threshold float64, documentId *uuid.UUID) ([]*ScoredDocumentChunk, error)
}
