package model

import "time"

// SupportMessage is a help request submitted from the contact form.
type SupportMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id"`
	Email     string    `json:"email" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Feedback is a rated comment about the platform.
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id"`
	Email     string    `json:"email" gorm:"size:255"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"feedback" gorm:"column:feedback;type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default table name.
func (Feedback) TableName() string { return "feedback" }
