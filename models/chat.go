package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents one turn of an insurance Q&A conversation
type ChatMessage struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Role      string     `json:"role"` // "user" or "assistant"
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}
