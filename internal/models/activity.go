package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable events for every intake and admin action.
// Entries are append-only; they are never updated or deleted.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     *uint             `gorm:"index" json:"user_id"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType *string           `gorm:"size:64;index" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	IPAddress  *string           `gorm:"size:64" json:"ip_address"`
	UserAgent  *string           `gorm:"size:512" json:"user_agent"`
	CreatedAt  time.Time         `json:"created_at"`
}
