package unitofwork

import (
	"context"

	"ai-research-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ResearchSessionRepository() contract.ResearchSessionRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
