package agent

import (
	"context"
	"fmt"
	"strings"

	"ai-research-assistant-be/internal/constant"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/llm"
)

const (
	historyContextTurns = 3
	historyExcerptCap   = 200
)

// Analyst runs the final workflow stage: produce the user-facing answer
// from the summary, optionally grounded in recent conversation history.
type Analyst struct {
	provider llm.Provider
	log      logger.ILogger
}

func NewAnalyst(provider llm.Provider, log logger.ILogger) *Analyst {
	return &Analyst{provider: provider, log: log}
}

func (a *Analyst) Analyze(ctx context.Context, query, summary string, history []Turn) (string, error) {
	var b strings.Builder
	b.WriteString(constant.AnalystSystemPrompt)

	if historyContext := renderHistory(history); historyContext != "" {
		b.WriteString("\n\nRecent Conversation:\n")
		b.WriteString(historyContext)
	}

	b.WriteString(fmt.Sprintf(
		"\n\nUser Query: %s\n\nResearch Summary:\n%s\n\nTask: Provide a comprehensive, well-structured answer to the user's query based on the research summary. Include practical insights and note any limitations of the available information.",
		query, summary,
	))

	answer, err := a.provider.Generate(ctx, b.String())
	if err != nil {
		return "", &ModelError{Stage: "analyst", Err: err}
	}
	return answer, nil
}

// renderHistory formats the most recent turns for the analyst prompt.
// Only the last three turns are kept and each body is capped so a long
// conversation cannot crowd out the summary. An empty history renders
// to an empty string and the section is omitted entirely.
func renderHistory(history []Turn) string {
	if len(history) == 0 {
		return ""
	}
	start := 0
	if len(history) > historyContextTurns {
		start = len(history) - historyContextTurns
	}
	var lines []string
	for _, turn := range history[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, truncateRunes(turn.Content, historyExcerptCap)))
	}
	return strings.Join(lines, "\n")
}
