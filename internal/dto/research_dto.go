package dto

import (
	"time"

	"github.com/google/uuid"
)

type ResearchQueryRequest struct {
	Query     string `json:"query" validate:"required,min=3,max=2000"`
	SessionId string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
}

type ResearchQueryResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	SourcesCount   int      `json:"sources_count"`
	Confidence     float64  `json:"confidence"`
	ProcessingTime float64  `json:"processing_time"`
	SessionId      string   `json:"session_id"`
	Warning        string   `json:"warning,omitempty"`
}

// QuickAnswerRequest bypasses the full workflow for a single model call.
type QuickAnswerRequest struct {
	Query string `json:"query" validate:"required,min=3,max=2000"`
}

type QuickAnswerResponse struct {
	Answer         string  `json:"answer"`
	ProcessingTime float64 `json:"processing_time"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required,min=2,max=500"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
	// DocumentId restricts the search to a single document's chunks.
	DocumentId string `json:"document_id,omitempty" validate:"omitempty,uuid4"`
}

type SemanticSearchResult struct {
	DocumentId uuid.UUID `json:"document_id"`
	FileName   string    `json:"file_name"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

type SemanticSearchResponse struct {
	Results []SemanticSearchResult `json:"results"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}
