package dto

import (
	"time"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// WaitingListCreateRequest is the public waiting-list / demo signup
// payload. ProductName is validated in the service because demo requests
// fall back to a default product.
type WaitingListCreateRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Name           *string `json:"name" validate:"omitempty,max=255"`
	CompanyName    *string `json:"company_name" validate:"omitempty,max=255"`
	ProductName    string  `json:"product_name" validate:"omitempty,max=255"`
	ProductVersion *string `json:"product_version" validate:"omitempty,max=64"`
	IsDemoRequest  bool    `json:"is_demo_request"`
}

// WaitingListEntryResponse serializes a stored entry for the admin
// dashboard.
type WaitingListEntryResponse struct {
	ID                    uint      `json:"id"`
	Email                 string    `json:"email"`
	Name                  *string   `json:"name"`
	CompanyName           *string   `json:"company_name"`
	ProductName           string    `json:"product_name"`
	ProductVersion        *string   `json:"product_version"`
	IsDemoRequest         bool      `json:"is_demo_request"`
	RegistrationTimestamp time.Time `json:"registration_timestamp"`
}

// NewWaitingListEntryResponse converts a model into a DTO.
func NewWaitingListEntryResponse(m models.WaitingListEntry) WaitingListEntryResponse {
	return WaitingListEntryResponse{
		ID:                    m.ID,
		Email:                 m.Email,
		Name:                  m.Name,
		CompanyName:           m.CompanyName,
		ProductName:           m.ProductName,
		ProductVersion:        m.ProductVersion,
		IsDemoRequest:         m.IsDemoRequest,
		RegistrationTimestamp: m.RegistrationTimestamp,
	}
}
