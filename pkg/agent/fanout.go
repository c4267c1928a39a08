package agent

import (
	"context"
	"sync"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/retrieval"
)

// PaperSearcher queries the academic paper index.
type PaperSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]retrieval.Paper, error)
}

// WebSearcher runs a focused live web search.
type WebSearcher interface {
	SearchFocused(ctx context.Context, query, focus string) (*retrieval.WebResult, error)
}

// DocumentChunk is one scored hit from the user document index.
type DocumentChunk struct {
	Text       string
	FileName   string
	ChunkIndex int
	Score      float64
}

// DocumentSearcher queries the user's uploaded document index.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]DocumentChunk, error)
}

// SourceSet selects which retrieval sources a gather consults.
type SourceSet struct {
	Papers    bool
	Web       bool
	Documents bool
}

func AllSources() SourceSet {
	return SourceSet{Papers: true, Web: true, Documents: true}
}

// Gatherer fans a query out to the configured sources concurrently and
// folds the results into a Bundle. A failing source is logged and
// contributes an empty slice; it never fails the gather.
type Gatherer struct {
	papers    PaperSearcher
	web       WebSearcher
	documents DocumentSearcher
	log       logger.ILogger

	maxPapers     int
	documentLimit int
}

func NewGatherer(papers PaperSearcher, web WebSearcher, documents DocumentSearcher, maxPapers, documentLimit int, log logger.ILogger) *Gatherer {
	return &Gatherer{
		papers:        papers,
		web:           web,
		documents:     documents,
		log:           log,
		maxPapers:     maxPapers,
		documentLimit: documentLimit,
	}
}

func (g *Gatherer) Gather(ctx context.Context, query string, sources SourceSet) *Bundle {
	bundle := &Bundle{}
	var wg sync.WaitGroup

	if sources.Papers && g.papers != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			papers, err := g.papers.Search(ctx, query, g.maxPapers)
			if err != nil {
				rerr := &RetrievalError{Source: SourcePaper, Err: err}
				g.log.Warn("agent.gather", "paper search failed, continuing with empty results", map[string]interface{}{"error": rerr.Error()})
				return
			}
			bundle.Papers = papersToRecords(papers)
		}()
	}

	if sources.Web && g.web != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := g.web.SearchFocused(ctx, query, "academic")
			if err != nil {
				rerr := &RetrievalError{Source: SourceWeb, Err: err}
				g.log.Warn("agent.gather", "web search failed, continuing with empty results", map[string]interface{}{"error": rerr.Error()})
				return
			}
			if result != nil && result.Content != "" {
				bundle.Web = []Record{webToRecord(result)}
			}
		}()
	}

	if sources.Documents && g.documents != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks, err := g.documents.Search(ctx, query, g.documentLimit)
			if err != nil {
				rerr := &RetrievalError{Source: SourceDocument, Err: err}
				g.log.Warn("agent.gather", "document search failed, continuing with empty results", map[string]interface{}{"error": rerr.Error()})
				return
			}
			bundle.Documents = chunksToRecords(chunks)
		}()
	}

	wg.Wait()
	return bundle
}

func papersToRecords(papers []retrieval.Paper) []Record {
	records := make([]Record, 0, len(papers))
	for _, p := range papers {
		records = append(records, Record{
			Kind:     SourcePaper,
			Title:    p.Title,
			Authors:  p.Authors,
			Excerpt:  p.Summary,
			Citation: p.PdfURL,
		})
	}
	return records
}

func webToRecord(result *retrieval.WebResult) Record {
	return Record{
		Kind:     SourceWeb,
		Title:    result.Query,
		Excerpt:  result.Content,
		Citation: result.Citations,
	}
}

func chunksToRecords(chunks []DocumentChunk) []Record {
	records := make([]Record, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, Record{
			Kind:     SourceDocument,
			Title:    c.FileName,
			Excerpt:  c.Text,
			Score:    c.Score,
			HasScore: true,
		})
	}
	return records
}
