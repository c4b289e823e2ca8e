package dto

import (
	"time"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// ContactCreateRequest is the public contact form payload.
type ContactCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Message string  `json:"message" validate:"required,min=1"`
}

// ContactMessageResponse serializes a stored contact message for the
// admin dashboard.
type ContactMessageResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewContactMessageResponse converts a model into a DTO.
func NewContactMessageResponse(m models.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Timestamp: m.Timestamp,
	}
}
