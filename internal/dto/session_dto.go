package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,max=200"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ConversationTurnResponse struct {
	Id             uuid.UUID `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	AgentType      string    `json:"agent_type,omitempty"`
	Sources        []string  `json:"sources,omitempty"`
	ProcessingTime float64   `json:"processing_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
