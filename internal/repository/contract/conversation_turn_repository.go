package contract

import (
	"context"

	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationTurnRepository interface {
	Create(ctx context.Context, turn *entity.ConversationTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecent returns the latest turns for a session in chronological
	// order, oldest first.
	FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ConversationTurn, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
