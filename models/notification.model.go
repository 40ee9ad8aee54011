package models

import (
	"gorm.io/gorm"
)

// Notification is a persisted in-app notification; delivery by email is best effort
type Notification struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index" json:"userId"`
	Type      string `gorm:"type:varchar(40);not null" json:"type"` // verification_submitted, verification_completed, verification_rejected, claim_status
	Title     string `gorm:"type:varchar(120)" json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	IsRead    bool   `gorm:"default:false" json:"isRead"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}
