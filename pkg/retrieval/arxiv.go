package retrieval

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Paper is one arXiv search result in normalized form.
type Paper struct {
	Title      string `json:"title"`
	Authors    string `json:"authors"` // comma-joined author names
	Summary    string `json:"summary"`
	Published  string `json:"published"` // YYYY-MM-DD
	ArxivID    string `json:"arxiv_id"`
	PdfURL     string `json:"pdf_url"`
	Categories string `json:"categories"`
}

// ArxivClient queries the arXiv Atom export API.
type ArxivClient struct {
	BaseURL string
	Client  *http.Client
	cache   *Cache
}

func NewArxivClient(baseURL string, cache *Cache) *ArxivClient {
	if baseURL == "" {
		baseURL = "http://export.arxiv.org/api/query"
	}
	return &ArxivClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}
}

// --- Atom feed structures (internal to this package) ---

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Search returns up to maxResults papers sorted by relevance.
func (a *ArxivClient) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	cacheKey := fmt.Sprintf("retrieval:arxiv:%s:%d", query, maxResults)
	var cached []Paper
	if a.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, "GET", a.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var feed atomFeed
	if err := xml.Unmarshal(bodyBytes, &feed); err != nil {
		return nil, fmt.Errorf("unmarshal atom feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, entryToPaper(entry))
	}

	a.cache.Set(ctx, cacheKey, papers)
	return papers, nil
}

func entryToPaper(entry atomEntry) Paper {
	authors := make([]string, 0, len(entry.Authors))
	for _, au := range entry.Authors {
		authors = append(authors, au.Name)
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		categories = append(categories, c.Term)
	}

	// Entry ID looks like http://arxiv.org/abs/2301.12345v1
	arxivID := entry.ID
	if idx := strings.LastIndex(entry.ID, "/"); idx != -1 {
		arxivID = entry.ID[idx+1:]
	}

	pdfURL := ""
	for _, link := range entry.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			pdfURL = link.Href
			break
		}
	}

	published := entry.Published
	if len(published) >= 10 {
		published = published[:10]
	}

	return Paper{
		Title:      strings.TrimSpace(entry.Title),
		Authors:    strings.Join(authors, ", "),
		Summary:    strings.TrimSpace(entry.Summary),
		Published:  published,
		ArxivID:    arxivID,
		PdfURL:     pdfURL,
		Categories: strings.Join(categories, ", "),
	}
}
