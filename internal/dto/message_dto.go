package dto

import "github.com/google/uuid"

// PublishEmbedDocumentMessage is the internal queue payload that asks
// the consumer to chunk and embed an uploaded document. The raw text
// travels in the message because only chunks are persisted.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Content    string    `json:"content"`
}
