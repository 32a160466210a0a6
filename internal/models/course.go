package models

import "time"

// Course groups problems and teams under one owning educator. Only the owner
// (or an admin) may act on course content.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the given user owns this course.
func (c Course) OwnedBy(userID uint) bool {
	return c.AdminID == userID
}
