package dto

import (
	"time"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActivityListRequest defines filters for the admin activity view.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	Action     string
	EntityType string
	UserID     uint
}

// ActivityResponse serializes a single audit entry.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	UserID     *uint                  `json:"user_id"`
	Action     string                 `json:"action"`
	EntityType *string                `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Details    map[string]interface{} `json:"details"`
	IPAddress  *string                `json:"ip_address"`
	UserAgent  *string                `json:"user_agent"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(m models.ActivityLog) ActivityResponse {
	details := map[string]interface{}(m.Details)
	if details == nil {
		details = map[string]interface{}{}
	}
	return ActivityResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Details:    details,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
}

// ActivityListResponse wraps a paginated activity listing.
type ActivityListResponse struct {
	Entries    []ActivityResponse `json:"entries"`
	Pagination PaginationMeta     `json:"pagination"`
}
