package service

import (
	"context"
	"time"

	"ai-research-assistant-be/internal/dto"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/agent"
	"ai-research-assistant-be/pkg/events"
	"ai-research-assistant-be/pkg/llm"
	pkgNats "ai-research-assistant-be/pkg/nats"
)

type IResearchService interface {
	// ProcessQuery runs the full three-stage workflow.
	ProcessQuery(ctx context.Context, req dto.ResearchQueryRequest) (*dto.ResearchQueryResponse, error)
	// QuickAnswer bypasses retrieval and the agent pipeline for a single
	// direct model call.
	QuickAnswer(ctx context.Context, req dto.QuickAnswerRequest) (*dto.QuickAnswerResponse, error)
}

type researchService struct {
	controller     *agent.Controller
	llmProvider    llm.Provider
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewResearchService(controller *agent.Controller, llmProvider llm.Provider, eventPublisher *pkgNats.Publisher, log logger.ILogger) IResearchService {
	return &researchService{
		controller:     controller,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *researchService) ProcessQuery(ctx context.Context, req dto.ResearchQueryRequest) (*dto.ResearchQueryResponse, error) {
	s.log.Info("research.service", "processing research query", map[string]interface{}{
		"query_length": len(req.Query),
		"session_id":   req.SessionId,
	})

	result, err := s.controller.ProcessQuery(ctx, req.Query, req.SessionId)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewResearchCompletedEvent(result.SessionID, result.SourcesCount, result.ProcessingTime)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("research.service", "failed to publish research completed event", map[string]interface{}{
				"session_id": result.SessionID,
				"error":      err.Error(),
			})
		}
	}

	return &dto.ResearchQueryResponse{
		Answer:         result.Answer,
		Sources:        result.Sources,
		SourcesCount:   result.SourcesCount,
		Confidence:     result.Confidence,
		ProcessingTime: result.ProcessingTime,
		SessionId:      result.SessionID,
		Warning:        result.Warning,
	}, nil
}

func (s *researchService) QuickAnswer(ctx context.Context, req dto.QuickAnswerRequest) (*dto.QuickAnswerResponse, error) {
	start := time.Now()

	answer, err := s.llmProvider.Generate(ctx, req.Query)
	if err != nil {
		return nil, &agent.ModelError{Stage: "quick_answer", Err: err}
	}

	return &dto.QuickAnswerResponse{
		Answer:         answer,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}
