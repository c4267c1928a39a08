package service

import (
	"context"
	"fmt"
	"time"

	"ai-research-assistant-be/internal/constant"
	"ai-research-assistant-be/internal/dto"
	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/internal/repository/specification"
	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/pkg/agent"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// IMemoryService is the conversation memory of the assistant. It backs
// the workflow's session resolution and turn persistence, and serves
// the session management routes.
type IMemoryService interface {
	agent.ConversationStore

	CreateSession(ctx context.Context, title string) (*dto.CreateSessionResponse, error)
	GetSessions(ctx context.Context) ([]dto.SessionResponse, error)
	GetSessionTurns(ctx context.Context, sessionId uuid.UUID) ([]dto.ConversationTurnResponse, error)
	ActivateSession(ctx context.Context, sessionId uuid.UUID) error
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type memoryService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	userId     string
	log        logger.ILogger
}

var _ agent.ConversationStore = (*memoryService)(nil)

const (
	activeSessionCacheKey = "active_session"
	maxSessionsListed     = 50
)

func NewMemoryService(uowFactory unitofwork.RepositoryFactory, cache *gocache.Cache, userId string, log logger.ILogger) IMemoryService {
	return &memoryService{
		uowFactory: uowFactory,
		cache:      cache,
		userId:     userId,
		log:        log,
	}
}

// ResolveSession applies the session policy: an explicit id is
// validated and used, otherwise the user's active session, otherwise a
// newly created one.
func (s *memoryService) ResolveSession(ctx context.Context, explicitID string) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if explicitID != "" {
		id, err := uuid.Parse(explicitID)
		if err != nil {
			return "", fmt.Errorf("invalid session id %q: %w", explicitID, err)
		}
		session, err := uow.ResearchSessionRepository().FindOne(ctx,
			specification.ByID{ID: id},
			specification.ByUserID{UserID: s.userId},
		)
		if err != nil {
			return "", err
		}
		if session == nil {
			return "", fmt.Errorf("session %s not found", explicitID)
		}
		return session.Id.String(), nil
	}

	if cached, found := s.cache.Get(s.activeCacheKey()); found {
		if id, ok := cached.(string); ok {
			return id, nil
		}
	}

	session, err := uow.ResearchSessionRepository().FindOne(ctx,
		specification.ByUserID{UserID: s.userId},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return "", err
	}
	if session != nil {
		s.cache.SetDefault(s.activeCacheKey(), session.Id.String())
		return session.Id.String(), nil
	}

	created, err := s.createActiveSession(ctx, constant.DefaultSessionTitle)
	if err != nil {
		return "", err
	}
	s.cache.SetDefault(s.activeCacheKey(), created.Id.String())
	return created.Id.String(), nil
}

func (s *memoryService) LoadRecentTurns(ctx context.Context, sessionID string, limit int) ([]agent.Turn, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ConversationTurnRepository().FindRecent(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	result := make([]agent.Turn, len(turns))
	for i, t := range turns {
		result[i] = agent.Turn{
			SessionID:      t.SessionId.String(),
			Role:           t.Role,
			Content:        t.Content,
			AgentType:      t.AgentType,
			Sources:        t.Sources,
			ProcessingTime: t.ProcessingTime,
			Timestamp:      t.CreatedAt,
		}
	}
	return result, nil
}

func (s *memoryService) AppendTurn(ctx context.Context, turn agent.Turn) error {
	sessionId, err := uuid.Parse(turn.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", turn.SessionID, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationTurnRepository().Create(ctx, &entity.ConversationTurn{
		Id:             uuid.New(),
		SessionId:      sessionId,
		Role:           turn.Role,
		Content:        turn.Content,
		AgentType:      turn.AgentType,
		Sources:        turn.Sources,
		ProcessingTime: turn.ProcessingTime,
		CreatedAt:      turn.Timestamp,
	})
}

func (s *memoryService) CreateSession(ctx context.Context, title string) (*dto.CreateSessionResponse, error) {
	if title == "" {
		title = constant.DefaultSessionTitle
	}
	created, err := s.createActiveSession(ctx, title)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(s.activeCacheKey(), created.Id.String())
	return &dto.CreateSessionResponse{Id: created.Id}, nil
}

func (s *memoryService) GetSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ResearchSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: s.userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Limit{Count: maxSessionsListed},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		result[i] = dto.SessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			IsActive:  session.IsActive,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return result, nil
}

func (s *memoryService) GetSessionTurns(ctx context.Context, sessionId uuid.UUID) ([]dto.ConversationTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: s.userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}

	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ConversationTurnResponse, len(turns))
	for i, t := range turns {
		result[i] = dto.ConversationTurnResponse{
			Id:             t.Id,
			Role:           t.Role,
			Content:        t.Content,
			AgentType:      t.AgentType,
			Sources:        t.Sources,
			ProcessingTime: t.ProcessingTime,
			CreatedAt:      t.CreatedAt,
		}
	}
	return result, nil
}

func (s *memoryService) ActivateSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: s.userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionId)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ResearchSessionRepository().DeactivateAllForUser(ctx, s.userId); err != nil {
		return err
	}
	session.IsActive = true
	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ResearchSessionRepository().Update(ctx, session); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.SetDefault(s.activeCacheKey(), session.Id.String())
	return nil
}

func (s *memoryService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ResearchSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: s.userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionId)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ConversationTurnRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ResearchSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Delete(s.activeCacheKey())
	return nil
}

func (s *memoryService) createActiveSession(ctx context.Context, title string) (*entity.ResearchSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ResearchSessionRepository().DeactivateAllForUser(ctx, s.userId); err != nil {
		return nil, err
	}

	session := &entity.ResearchSession{
		Id:        uuid.New(),
		UserId:    s.userId,
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.ResearchSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *memoryService) activeCacheKey() string {
	return activeSessionCacheKey + ":" + s.userId
}
