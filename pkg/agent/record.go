package agent

// SourceKind tags where a retrieval record came from.
type SourceKind string

const (
	SourcePaper    SourceKind = "paper"
	SourceWeb      SourceKind = "web"
	SourceDocument SourceKind = "document"
)

// Record is one retrieved item, normalized across sources. Excerpt
// holds the source body; Citation is a URL for papers, the joined
// citation list for web results, and a file reference for documents.
type Record struct {
	Kind     SourceKind
	Title    string
	Authors  string
	Excerpt  string
	Citation string
	Score    float64
	HasScore bool
}

// Bundle aggregates the fan-out results. A source that failed or
// returned nothing contributes an empty slice; the bundle itself is
// always non-nil after a gather.
type Bundle struct {
	Papers    []Record
	Web       []Record
	Documents []Record
}

// SourcesCount is the weight used for confidence scoring: each paper
// and each document counts one, the web result counts one when it
// carried any content.
func (b *Bundle) SourcesCount() int {
	n := len(b.Papers) + len(b.Documents)
	for _, w := range b.Web {
		if w.Excerpt != "" {
			n++
		}
	}
	return n
}

// SourceRefs collects the citation strings surfaced to the caller:
// every paper URL followed by the web citation string when present.
func (b *Bundle) SourceRefs() []string {
	refs := make([]string, 0, len(b.Papers)+1)
	for _, p := range b.Papers {
		if p.Citation != "" {
			refs = append(refs, p.Citation)
		}
	}
	for _, w := range b.Web {
		if w.Citation != "" {
			refs = append(refs, w.Citation)
		}
	}
	return refs
}

// Empty reports whether no source returned anything usable.
func (b *Bundle) Empty() bool {
	return len(b.Papers) == 0 && len(b.Web) == 0 && len(b.Documents) == 0
}
