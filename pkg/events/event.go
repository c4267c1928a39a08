package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RESEARCH_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by all event constructors.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeResearchCompleted = "RESEARCH_COMPLETED"
	TypeDocumentIndexed   = "DOCUMENT_INDEXED"
)

// NewResearchCompletedEvent announces a finished workflow run.
func NewResearchCompletedEvent(sessionID string, sourcesCount int, processingTime float64) Event {
	return BaseEvent{
		Type: TypeResearchCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionID,
			"sources_count":   sourcesCount,
			"processing_time": processingTime,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIndexedEvent announces that a document's chunks were embedded.
func NewDocumentIndexedEvent(documentID string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"document_id": documentID,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
