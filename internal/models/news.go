package models

import "time"

// News is a published news post. Date is a display string supplied by the
// editor, not a parsed timestamp; listings tie-break on CreatedAt.
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Date      string    `gorm:"size:64;not null" json:"date"`
	Summary   string    `gorm:"type:text;not null" json:"summary"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Image     *string   `gorm:"size:512" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
