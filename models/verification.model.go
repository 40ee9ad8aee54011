package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersonalInfo holds the identity details collected by the first verification step.
type PersonalInfo struct {
	FullName          string `gorm:"default:''" json:"fullName"`
	DateOfBirth       string `gorm:"default:''" json:"dateOfBirth"` // YYYY-MM-DD
	NationalID        string `gorm:"default:''" json:"nationalId"`
	Phone             string `gorm:"default:''" json:"phone"`
	Email             string `gorm:"default:''" json:"email"`
	Street            string `gorm:"default:''" json:"street"`
	Area              string `gorm:"default:''" json:"area"`
	City              string `gorm:"default:''" json:"city"`
	PostalCode        string `gorm:"default:''" json:"postalCode"`
	EmergencyName     string `gorm:"default:''" json:"emergencyName"`
	EmergencyRelation string `gorm:"default:''" json:"emergencyRelation"`
	EmergencyPhone    string `gorm:"default:''" json:"emergencyPhone"`
}

// PhoneVerification tracks OTP verification of the user's mobile number.
// The codes themselves live in the otps table; only send metadata is kept here.
type PhoneVerification struct {
	PhoneNumber  string     `gorm:"default:''" json:"phoneNumber"`
	CountryCode  string     `gorm:"default:''" json:"countryCode"`
	LastSentAt   *time.Time `json:"lastSentAt"`
	IsVerified   bool       `gorm:"default:false" json:"isVerified"`
	AttemptCount int        `gorm:"default:0" json:"attemptCount"`
}

// AddressConfirmation records confirmation of the address entered in personal info.
type AddressConfirmation struct {
	Street      string     `gorm:"default:''" json:"street"`
	Area        string     `gorm:"default:''" json:"area"`
	City        string     `gorm:"default:''" json:"city"`
	PostalCode  string     `gorm:"default:''" json:"postalCode"`
	Method      string     `gorm:"default:''" json:"method"` // utility_bill, bank_statement, rental_contract
	IsConfirmed bool       `gorm:"default:false" json:"isConfirmed"`
	ConfirmedAt *time.Time `json:"confirmedAt"`
}

// VerificationRecord is the single in-progress (or completed) identity
// verification workflow instance for a user. At most one exists per user.
type VerificationRecord struct {
	gorm.Model
	UserID       uint              `gorm:"not null;uniqueIndex" json:"userId"`
	UserRole     string            `gorm:"type:varchar(20);default:'RENTER'" json:"userRole"`
	CurrentStep  string            `gorm:"type:varchar(40);default:'personal_info'" json:"currentStep"`
	StepStatuses datatypes.JSONMap `json:"stepStatuses"`

	PersonalInfo PersonalInfo        `gorm:"embedded;embeddedPrefix:personal_" json:"personalInfo"`
	Phone        PhoneVerification   `gorm:"embedded;embeddedPrefix:phone_" json:"phoneVerification"`
	Address      AddressConfirmation `gorm:"embedded;embeddedPrefix:address_" json:"addressConfirmation"`

	SelfieCompleted bool   `gorm:"default:false" json:"selfieCompleted"`
	SelfieURL       string `gorm:"default:''" json:"selfieUrl"`

	TermsAcceptedAt   *time.Time `json:"termsAcceptedAt"`
	ConsentAcceptedAt *time.Time `json:"consentAcceptedAt"`

	OverallStatus   string     `gorm:"type:varchar(20);default:'not_started'" json:"overallStatus"`
	SubmittedAt     *time.Time `json:"submittedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	ReviewedBy      *uint      `json:"reviewedBy"`
	RejectionReason string     `gorm:"type:text" json:"rejectionReason"`
	IsDeleted       bool       `gorm:"default:false" json:"-"`
}
