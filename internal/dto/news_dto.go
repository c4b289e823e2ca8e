package dto

import (
	"time"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// NewsCreateRequest carries a new news post from the admin dashboard.
type NewsCreateRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=255"`
	Date    string  `json:"date" validate:"required,min=1,max=64"`
	Summary string  `json:"summary" validate:"required,min=1"`
	Content string  `json:"content" validate:"required,min=1"`
	Image   *string `json:"image" validate:"omitempty,max=512"`
}

// NewsUpdateRequest captures a partial update. Fields present in the
// payload overwrite the stored value; omitted fields retain it. Image is
// nullable, so it uses OptionalString to tell an explicit null apart from
// omission.
type NewsUpdateRequest struct {
	Title   *string        `json:"title" validate:"omitempty,min=1,max=255"`
	Date    *string        `json:"date" validate:"omitempty,min=1,max=64"`
	Summary *string        `json:"summary" validate:"omitempty,min=1"`
	Content *string        `json:"content" validate:"omitempty,min=1"`
	Image   OptionalString `json:"image"`
}

// NewsResponse serializes a news post for public and admin clients.
type NewsResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNewsResponse converts a model into a DTO.
func NewNewsResponse(m models.News) NewsResponse {
	return NewsResponse{
		ID:        m.ID,
		Title:     m.Title,
		Date:      m.Date,
		Summary:   m.Summary,
		Content:   m.Content,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// NewsListResponse wraps the public news listing, newest first.
type NewsListResponse struct {
	News     []NewsResponse `json:"news"`
	CacheHit bool           `json:"-"`
}
