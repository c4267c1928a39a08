package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title> Attention Is All You Need </title>
    <summary>
      The dominant sequence transduction models are based on complex recurrent
      or convolutional neural networks.
    </summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <category term="cs.CL"/>
    <category term="cs.LG"/>
  </entry>
</feed>`

func TestArxivSearchParsesFeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	client := NewArxivClient(srv.URL, nil)
	papers, err := client.Search(context.Background(), "attention transformers", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotQuery != "all:attention transformers" {
		t.Errorf("search_query = %q, want %q", gotQuery, "all:attention transformers")
	}
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}

	p := papers[0]
	if p.Title != "Attention Is All You Need" {
		t.Errorf("title not trimmed: %q", p.Title)
	}
	if p.Authors != "Ashish Vaswani, Noam Shazeer" {
		t.Errorf("authors = %q", p.Authors)
	}
	if p.ArxivID != "1706.03762v7" {
		t.Errorf("arxiv id = %q", p.ArxivID)
	}
	if p.PdfURL != "http://arxiv.org/pdf/1706.03762v7" {
		t.Errorf("pdf url = %q", p.PdfURL)
	}
	if p.Published != "2017-06-12" {
		t.Errorf("published = %q", p.Published)
	}
	if p.Categories != "cs.CL, cs.LG" {
		t.Errorf("categories = %q", p.Categories)
	}
}

func TestArxivSearchEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	client := NewArxivClient(srv.URL, nil)
	papers, err := client.Search(context.Background(), "no such topic", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("expected no papers, got %d", len(papers))
	}
}

func TestArxivSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewArxivClient(srv.URL, nil)
	if _, err := client.Search(context.Background(), "q", 5); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestArxivSearchDefaultsMaxResults(t *testing.T) {
	var gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("max_results")
		w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	client := NewArxivClient(srv.URL, nil)
	if _, err := client.Search(context.Background(), "q", 0); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotMax != "5" {
		t.Errorf("max_results = %q, want 5", gotMax)
	}
}
