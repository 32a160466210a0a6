package models

import "time"

// Notification records a mention/activity event for a recipient. The actor is
// always the authenticated caller and never equals the recipient.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RecipientID  uint      `gorm:"not null;index" json:"recipient_id"`
	ActorID      uint      `gorm:"not null" json:"actor_id"`
	Type         string    `gorm:"size:64;not null" json:"type"`
	ReferenceID  uint      `gorm:"not null" json:"reference_id"`
	ReferenceURL string    `gorm:"size:512" json:"reference_url"`
	IsRead       bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
