package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationDocument is one uploaded document of a verification record.
// The (record, type) pair is unique: re-uploading a type replaces the entry.
type VerificationDocument struct {
	gorm.Model
	RecordID   uint       `gorm:"not null;index;uniqueIndex:idx_record_doc_type" json:"recordId"`
	UserID     uint       `gorm:"not null;index" json:"userId"`
	Type       string     `gorm:"type:varchar(40);not null;uniqueIndex:idx_record_doc_type" json:"type"`
	FileName   string     `gorm:"default:''" json:"fileName"`
	FileURL    string     `gorm:"size:512;default:''" json:"fileUrl"`
	FileSize   int64      `gorm:"default:0" json:"fileSize"`
	Status     string     `gorm:"type:varchar(20);default:'not_started'" json:"status"`
	UploadedAt *time.Time `json:"uploadedAt"`
	IsDeleted  bool       `gorm:"default:false" json:"-"`
}
