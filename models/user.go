package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a sponsor-side user profile
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	CompanyName  *string   `json:"company_name,omitempty"`
	ContactName  *string   `json:"contact_name,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
