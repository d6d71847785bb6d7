package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryFolder groups inquiry projects for a user
type InquiryFolder struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
