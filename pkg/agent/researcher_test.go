package agent

import (
	"strings"
	"testing"
)

func makeBundle(papers, documents int, withWeb bool) *Bundle {
	b := &Bundle{}
	for i := 0; i < papers; i++ {
		b.Papers = append(b.Papers, Record{
			Kind:     SourcePaper,
			Title:    "Paper " + string(rune('A'+i)),
			Authors:  "Author One, Author Two",
			Excerpt:  strings.Repeat("p", 600),
			Citation: "https://arxiv.org/pdf/1234.0000" + string(rune('0'+i)),
		})
	}
	if withWeb {
		b.Web = []Record{{
			Kind:     SourceWeb,
			Title:    "query",
			Excerpt:  strings.Repeat("w", 800),
			Citation: "https://example.com/a, https://example.com/b",
		}}
	}
	for i := 0; i < documents; i++ {
		b.Documents = append(b.Documents, Record{
			Kind:     SourceDocument,
			Title:    "notes.pdf",
			Excerpt:  strings.Repeat("d", 400),
			Score:    0.87,
			HasScore: true,
		})
	}
	return b
}

func TestBuildResearchContextDeterministic(t *testing.T) {
	bundle := makeBundle(2, 2, true)
	first := buildResearchContext(bundle)
	for i := 0; i < 10; i++ {
		if got := buildResearchContext(bundle); got != first {
			t.Fatalf("context rendering not deterministic on iteration %d", i)
		}
	}
}

func TestBuildResearchContextSections(t *testing.T) {
	bundle := makeBundle(1, 1, true)
	got := buildResearchContext(bundle)

	for _, want := range []string{"=== ARXIV PAPERS ===", "=== WEB SEARCH RESULTS ===", "=== USER DOCUMENTS ==="} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing section %q", want)
		}
	}
	if !strings.Contains(got, "Relevance: 0.870") {
		t.Errorf("document relevance score not rendered: %q", got)
	}
	if !strings.Contains(got, "Citations: https://example.com/a, https://example.com/b") {
		t.Errorf("web citations not rendered")
	}
}

func TestBuildResearchContextTruncation(t *testing.T) {
	bundle := makeBundle(1, 1, true)
	got := buildResearchContext(bundle)

	if strings.Contains(got, strings.Repeat("p", paperExcerptCap+1)) {
		t.Error("paper summary exceeds excerpt cap")
	}
	if !strings.Contains(got, strings.Repeat("p", paperExcerptCap)+"...") {
		t.Error("paper summary not truncated with ellipsis")
	}
	if strings.Contains(got, strings.Repeat("d", documentExcerptCap+1)) {
		t.Error("document content exceeds excerpt cap")
	}
	// Web content is never truncated.
	if !strings.Contains(got, strings.Repeat("w", 800)) {
		t.Error("web content should be included in full")
	}
}

func TestBuildResearchContextCapsEntries(t *testing.T) {
	bundle := makeBundle(5, 5, false)
	got := buildResearchContext(bundle)

	if n := strings.Count(got, "Title: "); n != paperContextLimit {
		t.Errorf("expected %d papers in context, got %d", paperContextLimit, n)
	}
	if n := strings.Count(got, "From: "); n != documentContextLimit {
		t.Errorf("expected %d documents in context, got %d", documentContextLimit, n)
	}
}

func TestBuildResearchContextEmptyBundle(t *testing.T) {
	if got := buildResearchContext(&Bundle{}); got != "" {
		t.Errorf("empty bundle should render empty context, got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than cap", "hello", 10, "hello"},
		{"exactly at cap", "hello", 5, "hello"},
		{"over cap", "hello world", 5, "hello..."},
		{"multibyte runes", "héllö wörld", 5, "héllö..."},
		{"empty", "", 5, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateRunes(tc.in, tc.max); got != tc.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}
