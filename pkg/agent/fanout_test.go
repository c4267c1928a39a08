package agent

import (
	"context"
	"errors"
	"testing"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/retrieval"
)

type stubPaperSearcher struct {
	papers []retrieval.Paper
	err    error
}

func (s *stubPaperSearcher) Search(ctx context.Context, query string, maxResults int) ([]retrieval.Paper, error) {
	return s.papers, s.err
}

type stubWebSearcher struct {
	result *retrieval.WebResult
	err    error
	focus  string
}

func (s *stubWebSearcher) SearchFocused(ctx context.Context, query, focus string) (*retrieval.WebResult, error) {
	s.focus = focus
	return s.result, s.err
}

type stubDocumentSearcher struct {
	chunks []DocumentChunk
	err    error
}

func (s *stubDocumentSearcher) Search(ctx context.Context, query string, limit int) ([]DocumentChunk, error) {
	return s.chunks, s.err
}

func newTestGatherer(papers PaperSearcher, web WebSearcher, documents DocumentSearcher) *Gatherer {
	return NewGatherer(papers, web, documents, 5, 5, logger.NewNopLogger())
}

func TestGatherAllSourcesSucceed(t *testing.T) {
	g := newTestGatherer(
		&stubPaperSearcher{papers: []retrieval.Paper{
			{Title: "Attention Is All You Need", Authors: "Vaswani, Shazeer", Summary: "transformers", PdfURL: "https://arxiv.org/pdf/1706.03762"},
			{Title: "BERT", Summary: "bidirectional encoders", PdfURL: "https://arxiv.org/pdf/1810.04805"},
		}},
		&stubWebSearcher{result: &retrieval.WebResult{Content: "recent developments", Citations: "https://example.com"}},
		&stubDocumentSearcher{chunks: []DocumentChunk{{Text: "my notes", FileName: "notes.pdf", Score: 0.9}}},
	)

	bundle := g.Gather(context.Background(), "transformers", AllSources())

	if len(bundle.Papers) != 2 {
		t.Errorf("expected 2 papers, got %d", len(bundle.Papers))
	}
	if bundle.Papers[0].Authors != "Vaswani, Shazeer" {
		t.Errorf("authors not joined: %q", bundle.Papers[0].Authors)
	}
	if len(bundle.Web) != 1 || bundle.Web[0].Excerpt != "recent developments" {
		t.Errorf("web result missing: %+v", bundle.Web)
	}
	if len(bundle.Documents) != 1 || !bundle.Documents[0].HasScore {
		t.Errorf("document result missing or unscored: %+v", bundle.Documents)
	}
	if got := bundle.SourcesCount(); got != 4 {
		t.Errorf("sources count = %d, want 4", got)
	}
}

func TestGatherUsesAcademicFocus(t *testing.T) {
	web := &stubWebSearcher{result: &retrieval.WebResult{Content: "x"}}
	g := newTestGatherer(&stubPaperSearcher{}, web, &stubDocumentSearcher{})

	g.Gather(context.Background(), "q", AllSources())

	if web.focus != "academic" {
		t.Errorf("web search focus = %q, want academic", web.focus)
	}
}

func TestGatherIsolatesSourceFailures(t *testing.T) {
	g := newTestGatherer(
		&stubPaperSearcher{err: errors.New("arxiv unreachable")},
		&stubWebSearcher{err: errors.New("perplexity 500")},
		&stubDocumentSearcher{chunks: []DocumentChunk{{Text: "chunk", FileName: "doc.pdf", Score: 0.5}}},
	)

	bundle := g.Gather(context.Background(), "q", AllSources())

	if len(bundle.Papers) != 0 {
		t.Errorf("failed paper source should yield empty results")
	}
	if len(bundle.Web) != 0 {
		t.Errorf("failed web source should yield empty results")
	}
	if len(bundle.Documents) != 1 {
		t.Errorf("healthy source should still return results")
	}
	if got := bundle.SourcesCount(); got != 1 {
		t.Errorf("sources count = %d, want 1", got)
	}
}

func TestGatherAllSourcesFail(t *testing.T) {
	g := newTestGatherer(
		&stubPaperSearcher{err: errors.New("down")},
		&stubWebSearcher{err: errors.New("down")},
		&stubDocumentSearcher{err: errors.New("down")},
	)

	bundle := g.Gather(context.Background(), "q", AllSources())

	if bundle == nil {
		t.Fatal("gather must always return a bundle")
	}
	if !bundle.Empty() {
		t.Errorf("expected empty bundle, got %+v", bundle)
	}
	if got := bundle.SourcesCount(); got != 0 {
		t.Errorf("sources count = %d, want 0", got)
	}
}

func TestGatherDisabledSources(t *testing.T) {
	papers := &stubPaperSearcher{papers: []retrieval.Paper{{Title: "p"}}}
	g := newTestGatherer(papers, &stubWebSearcher{result: &retrieval.WebResult{Content: "x"}}, &stubDocumentSearcher{})

	bundle := g.Gather(context.Background(), "q", SourceSet{Web: true})

	if len(bundle.Papers) != 0 {
		t.Errorf("disabled paper source should not be consulted")
	}
	if len(bundle.Web) != 1 {
		t.Errorf("enabled web source should be consulted")
	}
}

func TestGatherEmptyWebContentNotCounted(t *testing.T) {
	g := newTestGatherer(
		&stubPaperSearcher{},
		&stubWebSearcher{result: &retrieval.WebResult{Content: "", Citations: "https://example.com"}},
		&stubDocumentSearcher{},
	)

	bundle := g.Gather(context.Background(), "q", AllSources())

	if len(bundle.Web) != 0 {
		t.Errorf("empty web content should not produce a record")
	}
	if got := bundle.SourcesCount(); got != 0 {
		t.Errorf("sources count = %d, want 0", got)
	}
}
