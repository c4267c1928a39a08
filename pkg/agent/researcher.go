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
	paperContextLimit    = 3
	documentContextLimit = 3
	paperExcerptCap      = 500
	documentExcerptCap   = 300
)

// Researcher runs the first workflow stage: fan the query out to the
// retrieval sources, then condense the findings into a structured
// synthesis with one LLM call.
type Researcher struct {
	gatherer *Gatherer
	provider llm.Provider
	log      logger.ILogger
}

func NewResearcher(gatherer *Gatherer, provider llm.Provider, log logger.ILogger) *Researcher {
	return &Researcher{gatherer: gatherer, provider: provider, log: log}
}

func (r *Researcher) Gather(ctx context.Context, query string, sources SourceSet) *Bundle {
	return r.gatherer.Gather(ctx, query, sources)
}

// Synthesize condenses the bundle into a research synthesis. A model
// failure here is fatal to the workflow.
func (r *Researcher) Synthesize(ctx context.Context, query string, bundle *Bundle) (string, error) {
	researchContext := buildResearchContext(bundle)
	if researchContext == "" {
		researchContext = "No research findings were retrieved for this query."
	}

	prompt := fmt.Sprintf(
		"%s\n\nResearch Query: %s\n\nResearch Findings:\n%s\n\nTask: Synthesize these research findings into a clear, organized report with proper citations. Focus on the most relevant and reliable information.",
		constant.ResearcherSystemPrompt, query, researchContext,
	)

	synthesis, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		return "", &ModelError{Stage: "research", Err: err}
	}
	return synthesis, nil
}

// buildResearchContext renders the bundle into the synthesis prompt.
// The rendering is deterministic: same bundle, same bytes. Papers and
// documents keep retrieval order and are capped at three entries each;
// the web result is included in full.
func buildResearchContext(bundle *Bundle) string {
	var sections []string

	if len(bundle.Papers) > 0 {
		var b strings.Builder
		b.WriteString("=== ARXIV PAPERS ===")
		for i, p := range bundle.Papers {
			if i >= paperContextLimit {
				break
			}
			b.WriteString(fmt.Sprintf("\n\nTitle: %s\nAuthors: %s\nSummary: %s\nURL: %s",
				p.Title, p.Authors, truncateRunes(p.Excerpt, paperExcerptCap), p.Citation))
		}
		sections = append(sections, b.String())
	}

	if len(bundle.Web) > 0 {
		var b strings.Builder
		b.WriteString("=== WEB SEARCH RESULTS ===")
		for _, w := range bundle.Web {
			b.WriteString(fmt.Sprintf("\n\n%s\n\nCitations: %s", w.Excerpt, w.Citation))
		}
		sections = append(sections, b.String())
	}

	if len(bundle.Documents) > 0 {
		var b strings.Builder
		b.WriteString("=== USER DOCUMENTS ===")
		for i, d := range bundle.Documents {
			if i >= documentContextLimit {
				break
			}
			b.WriteString(fmt.Sprintf("\n\nFrom: %s\nContent: %s\nRelevance: %.3f",
				d.Title, truncateRunes(d.Excerpt, documentExcerptCap), d.Score))
		}
		sections = append(sections, b.String())
	}

	return strings.Join(sections, "\n\n")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
