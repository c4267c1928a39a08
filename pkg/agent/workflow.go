package agent

import (
	"context"
	"time"

	"ai-research-assistant-be/internal/constant"
	"ai-research-assistant-be/internal/pkg/logger"
)

// ConversationStore persists sessions and turns. ResolveSession applies
// the session policy: an explicit id is used as-is, otherwise the
// user's active session, otherwise a newly created one.
type ConversationStore interface {
	ResolveSession(ctx context.Context, explicitID string) (string, error)
	LoadRecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	AppendTurn(ctx context.Context, turn Turn) error
}

// Result is what a completed workflow run hands back to the caller.
// Warning is set when the answer was produced but could not be
// persisted.
type Result struct {
	Answer         string
	Sources        []string
	SourcesCount   int
	Confidence     float64
	ProcessingTime float64
	SessionID      string
	Warning        string
}

// Controller drives the three agent stages strictly in sequence over a
// single State. There is no branching and no retry loop: each stage
// either produces its output or fails the whole run.
type Controller struct {
	store      ConversationStore
	researcher *Researcher
	summarizer *Summarizer
	analyst    *Analyst
	notifier   Notifier
	log        logger.ILogger

	historyLimit int
}

func NewController(store ConversationStore, researcher *Researcher, summarizer *Summarizer, analyst *Analyst, notifier Notifier, historyLimit int, log logger.ILogger) *Controller {
	return &Controller{
		store:        store,
		researcher:   researcher,
		summarizer:   summarizer,
		analyst:      analyst,
		notifier:     notifier,
		log:          log,
		historyLimit: historyLimit,
	}
}

// ProcessQuery runs the full workflow for one user query. sessionID may
// be empty, in which case the store resolves or creates one.
func (c *Controller) ProcessQuery(ctx context.Context, query, sessionID string) (*Result, error) {
	sessionID, err := c.store.ResolveSession(ctx, sessionID)
	if err != nil {
		return nil, &WorkflowError{Step: StepInit, Err: &StorageError{Op: "resolve_session", Err: err}}
	}

	state := NewState(query, sessionID)
	c.notify(state)

	history, err := c.store.LoadRecentTurns(ctx, sessionID, c.historyLimit)
	if err != nil {
		// History is an enrichment, not an input the stages cannot run
		// without. Log and proceed with an empty history.
		c.log.Warn("agent.workflow", "failed to load conversation history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		history = nil
	}
	state.ConversationHistory = history

	state.Advance(StepResearch)
	c.notify(state)

	state.Retrieval = c.researcher.Gather(ctx, query, AllSources())
	state.Sources = state.Retrieval.SourceRefs()

	synthesis, err := c.researcher.Synthesize(ctx, query, state.Retrieval)
	if err != nil {
		return nil, c.fail(state, err)
	}
	state.ResearchSynthesis = synthesis

	state.Advance(StepSummarizer)
	c.notify(state)

	summary, err := c.summarizer.Summarize(ctx, query, synthesis)
	if err != nil {
		return nil, c.fail(state, err)
	}
	state.Summary = summary

	state.Advance(StepAnalyst)
	c.notify(state)

	answer, err := c.analyst.Analyze(ctx, query, summary, state.ConversationHistory)
	if err != nil {
		return nil, c.fail(state, err)
	}
	state.FinalAnswer = answer

	state.Advance(StepComplete)
	state.ProcessingTime = time.Since(state.StartedAt).Seconds()
	c.notify(state)

	result := &Result{
		Answer:         state.FinalAnswer,
		Sources:        state.Sources,
		SourcesCount:   state.Retrieval.SourcesCount(),
		Confidence:     confidence(state.Retrieval.SourcesCount()),
		ProcessingTime: state.ProcessingTime,
		SessionID:      sessionID,
	}

	if err := c.persistExchange(ctx, state); err != nil {
		// The answer is already computed; losing it over a persistence
		// failure would be worse than returning it unrecorded.
		c.log.Error("agent.workflow", "failed to persist conversation turns", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		result.Warning = "answer could not be saved to the conversation history"
	}

	return result, nil
}

// persistExchange writes the user turn first, then the assistant turn.
// An assistant turn must never exist without its triggering user turn.
func (c *Controller) persistExchange(ctx context.Context, state *State) error {
	now := time.Now()
	userTurn := Turn{
		SessionID: state.SessionID,
		Role:      constant.TurnRoleUser,
		Content:   state.Query,
		Timestamp: now,
	}
	if err := c.store.AppendTurn(ctx, userTurn); err != nil {
		return &StorageError{Op: "append_user_turn", Err: err}
	}

	assistantTurn := Turn{
		SessionID:      state.SessionID,
		Role:           constant.TurnRoleAssistant,
		Content:        state.FinalAnswer,
		AgentType:      constant.AgentTypeAnalyst,
		Sources:        state.Sources,
		ProcessingTime: state.ProcessingTime,
		Timestamp:      now,
	}
	if err := c.store.AppendTurn(ctx, assistantTurn); err != nil {
		return &StorageError{Op: "append_assistant_turn", Err: err}
	}
	return nil
}

func (c *Controller) fail(state *State, err error) error {
	failedStep := state.CurrentStep
	state.Fail(err)
	c.notify(state)
	c.log.Error("agent.workflow", "workflow stage failed", map[string]interface{}{
		"session_id": state.SessionID,
		"step":       string(failedStep),
		"error":      err.Error(),
	})
	return &WorkflowError{Step: failedStep, Err: err}
}

func (c *Controller) notify(state *State) {
	if c.notifier == nil {
		return
	}
	c.notifier.NotifyProgress(ProgressEvent{
		SessionID: state.SessionID,
		Step:      state.CurrentStep,
		Timestamp: time.Now(),
	})
}

func confidence(sourcesCount int) float64 {
	score := 0.5 + 0.1*float64(sourcesCount)
	if score > 0.95 {
		return 0.95
	}
	return score
}
