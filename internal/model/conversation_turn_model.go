package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationTurn struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role           string         `gorm:"type:text;not null"`
	Content        string         `gorm:"type:text;not null"`
	AgentType      string         `gorm:"type:text"`
	Sources        datatypes.JSON `gorm:"type:jsonb"`
	ProcessingTime float64        `gorm:"default:0"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
