package dto

import "github.com/ratotecki/smartgridlab-api/internal/models"

// LoginRequest carries credentials for session establishment.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse serializes an account without its password hash.
type UserResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(m models.User) UserResponse {
	return UserResponse{
		ID:      m.ID,
		Email:   m.Email,
		Name:    m.Name,
		IsAdmin: m.IsAdmin,
	}
}

// BootstrapAdminRequest creates the first admin account. The route is
// only mounted when the development-mode flag is set.
type BootstrapAdminRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
