package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusIndexed    = "indexed"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	Id          uuid.UUID
	UserId      string
	FileName    string
	ContentType string
	SizeBytes   int64
	Status      string
	ChunkCount  int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
