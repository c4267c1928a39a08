package mapper

import (
	"encoding/json"
	"time"

	"ai-research-assistant-be/internal/entity"
	"ai-research-assistant-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TurnMapper struct{}

func NewTurnMapper() *TurnMapper {
	return &TurnMapper{}
}

func (m *TurnMapper) ToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		d := t.DeletedAt.Time
		deletedAt = &d
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	var sources []string
	if len(t.Sources) > 0 {
		// Sources were written by us as a JSON string array; a decode
		// failure means a corrupt row, which we surface as no sources.
		_ = json.Unmarshal(t.Sources, &sources)
	}

	return &entity.ConversationTurn{
		Id:             t.Id,
		SessionId:      t.SessionId,
		Role:           t.Role,
		Content:        t.Content,
		AgentType:      t.AgentType,
		Sources:        sources,
		ProcessingTime: t.ProcessingTime,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      t.DeletedAt.Valid,
	}
}

func (m *TurnMapper) ToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	var sources datatypes.JSON
	if len(t.Sources) > 0 {
		raw, err := json.Marshal(t.Sources)
		if err == nil {
			sources = datatypes.JSON(raw)
		}
	}

	return &model.ConversationTurn{
		Id:             t.Id,
		SessionId:      t.SessionId,
		Role:           t.Role,
		Content:        t.Content,
		AgentType:      t.AgentType,
		Sources:        sources,
		ProcessingTime: t.ProcessingTime,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
