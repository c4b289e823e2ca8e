package models

import "time"

// WaitingListEntry is a waiting-list signup or demo request captured from
// the public site. Email uniqueness is enforced by the database index so
// concurrent duplicate submissions cannot both land.
type WaitingListEntry struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Email                 string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name                  *string   `gorm:"size:255" json:"name"`
	CompanyName           *string   `gorm:"size:255" json:"company_name"`
	ProductName           string    `gorm:"size:255;not null" json:"product_name"`
	ProductVersion        *string   `gorm:"size:64" json:"product_version"`
	IsDemoRequest         bool      `gorm:"not null;default:false" json:"is_demo_request"`
	RegistrationTimestamp time.Time `gorm:"autoCreateTime;index" json:"registration_timestamp"`
}
