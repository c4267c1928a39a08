package agent

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-research-assistant-be/internal/constant"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/llm"
	"ai-research-assistant-be/pkg/retrieval"
)

type scriptedProvider struct {
	responses []string
	failAt    int // 1-based call index that fails, 0 for never
	calls     int
	prompts   []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.failAt == p.calls {
		return "", errors.New("model unavailable")
	}
	if p.calls <= len(p.responses) {
		return p.responses[p.calls-1], nil
	}
	return "", errors.New("no scripted response")
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty history")
	}
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ResolveSession(ctx context.Context, explicitID string) (string, error) {
	args := m.Called(ctx, explicitID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) LoadRecentTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	args := m.Called(ctx, sessionID, limit)
	if turns, ok := args.Get(0).([]Turn); ok {
		return turns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) AppendTurn(ctx context.Context, turn Turn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

type recordingNotifier struct {
	steps []Step
}

func (n *recordingNotifier) NotifyProgress(event ProgressEvent) {
	n.steps = append(n.steps, event.Step)
}

func newTestController(provider llm.Provider, store ConversationStore, notifier Notifier) *Controller {
	log := logger.NewNopLogger()
	gatherer := NewGatherer(
		&stubPaperSearcher{papers: []retrieval.Paper{
			{Title: "Paper A", Summary: "a", PdfURL: "https://arxiv.org/pdf/1"},
			{Title: "Paper B", Summary: "b", PdfURL: "https://arxiv.org/pdf/2"},
		}},
		&stubWebSearcher{result: &retrieval.WebResult{Content: "web content", Citations: "https://example.com"}},
		&stubDocumentSearcher{},
		5, 5, log,
	)
	return NewController(
		store,
		NewResearcher(gatherer, provider, log),
		NewSummarizer(provider, log),
		NewAnalyst(provider, log),
		notifier,
		10,
		log,
	)
}

func TestProcessQueryHappyPath(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"the synthesis", "the summary", "the answer"}}
	store := &mockStore{}
	notifier := &recordingNotifier{}

	store.On("ResolveSession", mock.Anything, "").Return("session-1", nil)
	store.On("LoadRecentTurns", mock.Anything, "session-1", 10).Return([]Turn{}, nil)
	store.On("AppendTurn", mock.Anything, mock.Anything).Return(nil)

	controller := newTestController(provider, store, notifier)
	result, err := controller.ProcessQuery(context.Background(), "what are transformers?", "")

	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Answer)
	assert.Equal(t, "session-1", result.SessionID)
	assert.Empty(t, result.Warning)

	// 2 papers + 1 web result with content.
	assert.Equal(t, 3, result.SourcesCount)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Equal(t, []string{"https://arxiv.org/pdf/1", "https://arxiv.org/pdf/2", "https://example.com"}, result.Sources)

	assert.Equal(t, 3, provider.calls, "exactly one model call per stage")
	assert.Equal(t, []Step{StepInit, StepResearch, StepSummarizer, StepAnalyst, StepComplete}, notifier.steps)
	store.AssertNumberOfCalls(t, "AppendTurn", 2)
}

func TestProcessQueryStagesSeeUpstreamOutput(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"the synthesis", "the summary", "the answer"}}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return([]Turn{}, nil)
	store.On("AppendTurn", mock.Anything, mock.Anything).Return(nil)

	controller := newTestController(provider, store, nil)
	_, err := controller.ProcessQuery(context.Background(), "q", "s")
	require.NoError(t, err)

	require.Len(t, provider.prompts, 3)
	assert.Contains(t, provider.prompts[1], "the synthesis", "summarizer prompt must carry the synthesis")
	assert.Contains(t, provider.prompts[2], "the summary", "analyst prompt must carry the summary")
	assert.NotContains(t, provider.prompts[2], "the synthesis", "analyst sees the summary, not the raw synthesis")
}

func TestProcessQueryPersistsUserThenAssistant(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"syn", "sum", "final answer"}}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return([]Turn{}, nil)

	var appended []Turn
	store.On("AppendTurn", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		appended = append(appended, args.Get(1).(Turn))
	}).Return(nil)

	controller := newTestController(provider, store, nil)
	result, err := controller.ProcessQuery(context.Background(), "my question", "s")
	require.NoError(t, err)

	require.Len(t, appended, 2)
	assert.Equal(t, constant.TurnRoleUser, appended[0].Role)
	assert.Equal(t, "my question", appended[0].Content)
	assert.Empty(t, appended[0].AgentType)

	assert.Equal(t, constant.TurnRoleAssistant, appended[1].Role)
	assert.Equal(t, "final answer", appended[1].Content)
	assert.Equal(t, constant.AgentTypeAnalyst, appended[1].AgentType)
	assert.Equal(t, result.Sources, appended[1].Sources)
	assert.GreaterOrEqual(t, appended[1].ProcessingTime, 0.0)
}

func TestProcessQuerySummarizerFailureIsFatal(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"syn", "", ""}, failAt: 2}
	store := &mockStore{}
	notifier := &recordingNotifier{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return([]Turn{}, nil)

	controller := newTestController(provider, store, notifier)
	result, err := controller.ProcessQuery(context.Background(), "q", "s")

	require.Error(t, err)
	assert.Nil(t, result)

	var wferr *WorkflowError
	require.ErrorAs(t, err, &wferr)
	assert.Equal(t, StepSummarizer, wferr.Step)
	var merr *ModelError
	assert.ErrorAs(t, err, &merr)

	assert.Equal(t, 2, provider.calls, "analyst must not run after summarizer failure")
	store.AssertNotCalled(t, "AppendTurn", mock.Anything, mock.Anything)
	assert.Equal(t, StepError, notifier.steps[len(notifier.steps)-1])
}

func TestProcessQuerySynthesisFailureIsFatal(t *testing.T) {
	provider := &scriptedProvider{failAt: 1}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return([]Turn{}, nil)

	controller := newTestController(provider, store, nil)
	_, err := controller.ProcessQuery(context.Background(), "q", "s")

	require.Error(t, err)
	var wferr *WorkflowError
	require.ErrorAs(t, err, &wferr)
	assert.Equal(t, StepResearch, wferr.Step)
	assert.Equal(t, 1, provider.calls)
	store.AssertNotCalled(t, "AppendTurn", mock.Anything, mock.Anything)
}

func TestProcessQueryPersistenceFailureKeepsAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"syn", "sum", "the answer"}}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return([]Turn{}, nil)
	store.On("AppendTurn", mock.Anything, mock.Anything).Return(errors.New("db down"))

	controller := newTestController(provider, store, nil)
	result, err := controller.ProcessQuery(context.Background(), "q", "s")

	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Answer)
	assert.NotEmpty(t, result.Warning)
	// Once the user turn fails the assistant turn is not attempted.
	store.AssertNumberOfCalls(t, "AppendTurn", 1)
}

func TestProcessQueryHistoryLoadFailureIsNonFatal(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"syn", "sum", "ans"}}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "s").Return("s", nil)
	store.On("LoadRecentTurns", mock.Anything, "s", 10).Return(nil, errors.New("db down"))
	store.On("AppendTurn", mock.Anything, mock.Anything).Return(nil)

	controller := newTestController(provider, store, nil)
	result, err := controller.ProcessQuery(context.Background(), "q", "s")

	require.NoError(t, err)
	assert.Equal(t, "ans", result.Answer)
}

func TestProcessQuerySessionResolutionFailure(t *testing.T) {
	provider := &scriptedProvider{}
	store := &mockStore{}
	store.On("ResolveSession", mock.Anything, "").Return("", errors.New("db down"))

	controller := newTestController(provider, store, nil)
	result, err := controller.ProcessQuery(context.Background(), "q", "")

	require.Error(t, err)
	assert.Nil(t, result)
	var serr *StorageError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, provider.calls, "no model calls without a session")
}

func TestConfidenceScaling(t *testing.T) {
	cases := []struct {
		sources int
		want    float64
	}{
		{0, 0.5},
		{1, 0.6},
		{3, 0.8},
		{5, 0.95},
		{10, 0.95},
	}
	for _, tc := range cases {
		got := confidence(tc.sources)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("confidence(%d) = %v, want %v", tc.sources, got, tc.want)
		}
	}
}

func TestStateAdvanceRejectsBackwards(t *testing.T) {
	state := NewState("q", "s")
	state.Advance(StepResearch)
	state.Advance(StepSummarizer)

	defer func() {
		if recover() == nil {
			t.Error("backwards step transition should panic")
		}
	}()
	state.Advance(StepResearch)
}
