package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClaimStatus defines the lifecycle state of an insurance claim
type ClaimStatus string

const (
	ClaimStatusSubmitted   ClaimStatus = "SUBMITTED"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusRejected    ClaimStatus = "REJECTED"
	ClaimStatusSettled     ClaimStatus = "SETTLED"
)

// InsuranceClaim is filed by a renter or host against a booking
type InsuranceClaim struct {
	gorm.Model
	UserID       uint           `gorm:"not null;index" json:"userId"`
	ReferenceNo  string         `gorm:"type:varchar(40);uniqueIndex" json:"referenceNo"`
	BookingRef   string         `gorm:"type:varchar(60);not null" json:"bookingRef"`
	VehicleDesc  string         `gorm:"type:varchar(120)" json:"vehicleDesc"`
	IncidentDate time.Time      `gorm:"not null" json:"incidentDate"`
	IncidentType string         `gorm:"type:varchar(40);not null" json:"incidentType"` // collision, theft, vandalism, mechanical, other
	Description  string         `gorm:"type:text" json:"description"`
	Photos       datatypes.JSON `json:"photos"` // list of uploaded photo URLs
	ClaimAmount  float64        `gorm:"default:0" json:"claimAmount"`
	Status       ClaimStatus    `gorm:"type:varchar(20);default:'SUBMITTED';index" json:"status"`
	AdminNotes   string         `gorm:"type:text" json:"adminNotes"`
	ReviewedBy   *uint          `json:"reviewedBy"`
	ReviewedAt   *time.Time     `json:"reviewedAt"`
	SettledAt    *time.Time     `json:"settledAt"`
	IsDeleted    bool           `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (InsuranceClaim) TableName() string {
	return "insurance_claims"
}
