package entity

import (
	"time"

	"github.com/google/uuid"
)

type ResearchSession struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
