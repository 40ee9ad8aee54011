package models

import (
	"time"

	"gorm.io/gorm"
)

// Maintenance rows are append-only; the latest row wins.
type Maintenance struct {
	gorm.Model
	Enabled   bool      `gorm:"default:false" json:"enabled"`
	Message   string    `gorm:"type:text" json:"message"`
	UpdatedBy uint      `gorm:"default:0" json:"updatedBy"`
	SetAt     time.Time `json:"setAt"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}
