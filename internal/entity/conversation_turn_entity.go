package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationTurn struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	Role           string
	Content        string
	AgentType      string
	Sources        []string
	ProcessingTime float64
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
