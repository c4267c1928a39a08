package agent

import (
	"context"
	"fmt"

	"ai-research-assistant-be/internal/constant"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/llm"
)

// Summarizer runs the second workflow stage: condense the research
// synthesis into a concise summary aimed at the original query.
type Summarizer struct {
	provider llm.Provider
	log      logger.ILogger
}

func NewSummarizer(provider llm.Provider, log logger.ILogger) *Summarizer {
	return &Summarizer{provider: provider, log: log}
}

func (s *Summarizer) Summarize(ctx context.Context, query, synthesis string) (string, error) {
	prompt := fmt.Sprintf(
		"%s\n\nOriginal Query: %s\n\nResearch Synthesis:\n%s\n\nTask: Create a concise summary of the key findings that directly addresses the query. Preserve the most important facts and citations.",
		constant.SummarizerSystemPrompt, query, synthesis,
	)

	summary, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", &ModelError{Stage: "summarizer", Err: err}
	}
	return summary, nil
}
