package verification

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// MinAge and MaxAge bound the accepted date of birth.
	MinAge = 18
	MaxAge = 100

	// MaxSelfieSize and MaxDocumentSize bound upload sizes in bytes.
	MaxSelfieSize   = 10 << 20
	MaxDocumentSize = 15 << 20
)

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nationalIDRe = regexp.MustCompile(`^\d{10}$`)
	mobileRe     = regexp.MustCompile(`^[234]\d{7}$`) // 8-digit local numbers start with 2, 3 or 4
	otpCodeRe    = regexp.MustCompile(`^\d{6}$`)
)

// Helper to validate email format
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Helper to validate the 10-digit national identification number
func IsValidNationalID(nni string) bool {
	return nationalIDRe.MatchString(nni)
}

// Helper to validate local mobile number format
func IsValidMobile(mobile string) bool {
	return mobileRe.MatchString(mobile)
}

// IsValidOTPCode reports whether code is exactly 6 digits.
func IsValidOTPCode(code string) bool {
	return otpCodeRe.MatchString(code)
}

// PersonalInfoInput is the data collected by the personal-info step.
type PersonalInfoInput struct {
	FullName          string `json:"fullName"`
	DateOfBirth       string `json:"dateOfBirth"` // YYYY-MM-DD
	NationalID        string `json:"nationalId"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Street            string `json:"street"`
	Area              string `json:"area"`
	City              string `json:"city"`
	PostalCode        string `json:"postalCode"`
	EmergencyName     string `json:"emergencyName"`
	EmergencyRelation string `json:"emergencyRelation"`
	EmergencyPhone    string `json:"emergencyPhone"`
}

// ValidatePersonalInfo returns field-level error messages, empty when valid.
func ValidatePersonalInfo(info PersonalInfoInput) map[string]string {
	errors := make(map[string]string)

	if len(strings.TrimSpace(info.FullName)) < 3 {
		errors["fullName"] = "Full name must be at least 3 characters long!"
	}

	if info.DateOfBirth == "" {
		errors["dateOfBirth"] = "Date of birth is required!"
	} else if dob, err := time.Parse("2006-01-02", info.DateOfBirth); err != nil {
		errors["dateOfBirth"] = "Date of birth must be in YYYY-MM-DD format!"
	} else {
		age := ageAt(dob, time.Now())
		if age < MinAge {
			errors["dateOfBirth"] = "You must be at least 18 years old!"
		} else if age > MaxAge {
			errors["dateOfBirth"] = "Invalid date of birth!"
		}
	}

	if !IsValidNationalID(info.NationalID) {
		errors["nationalId"] = "National ID must be exactly 10 digits!"
	}

	if !IsValidMobile(info.Phone) {
		errors["phone"] = "Invalid mobile number!"
	}

	if info.Email != "" && !IsValidEmail(info.Email) {
		errors["email"] = "Invalid email!"
	}

	if strings.TrimSpace(info.Street) == "" {
		errors["street"] = "Street is required!"
	}
	if strings.TrimSpace(info.Area) == "" {
		errors["area"] = "Area is required!"
	}
	if strings.TrimSpace(info.City) == "" {
		errors["city"] = "City is required!"
	}

	if strings.TrimSpace(info.EmergencyName) == "" {
		errors["emergencyName"] = "Emergency contact name is required!"
	}
	if strings.TrimSpace(info.EmergencyRelation) == "" {
		errors["emergencyRelation"] = "Emergency contact relationship is required!"
	}
	if !IsValidMobile(info.EmergencyPhone) {
		errors["emergencyPhone"] = "Invalid emergency contact number!"
	}

	return errors
}

// ageAt computes whole years between dob and ref.
func ageAt(dob, ref time.Time) int {
	age := ref.Year() - dob.Year()
	if ref.YearDay() < dob.YearDay() {
		age--
	}
	return age
}

var documentExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateDocumentFile checks a document upload's name and size for its category.
func ValidateDocumentFile(docType DocumentType, fileName string, fileSize int64) map[string]string {
	errors := make(map[string]string)

	if !IsKnownDocumentType(docType) {
		errors["type"] = "Unknown document type!"
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !documentExtensions[ext] {
		errors["file"] = "Document must be a JPG, PNG or PDF file!"
	}

	if fileSize <= 0 {
		errors["fileSize"] = "Uploaded file is empty!"
	} else if fileSize > MaxDocumentSize {
		errors["fileSize"] = "Document must be 15MB or smaller!"
	}

	return errors
}

// ValidateSelfieFile checks a selfie upload: images only, at most 10MB.
func ValidateSelfieFile(fileName string, fileSize int64) map[string]string {
	errors := make(map[string]string)

	ext := strings.ToLower(filepath.Ext(fileName))
	if !imageExtensions[ext] {
		errors["file"] = "Selfie must be a JPG or PNG image!"
	}

	if fileSize <= 0 {
		errors["fileSize"] = "Uploaded file is empty!"
	} else if fileSize > MaxSelfieSize {
		errors["fileSize"] = "Selfie must be 10MB or smaller!"
	}

	return errors
}

// ConfirmationMethods are the accepted document-backed address confirmation methods.
var ConfirmationMethods = []string{"utility_bill", "bank_statement", "rental_contract"}

// IsValidConfirmationMethod reports whether method is one of the accepted three.
func IsValidConfirmationMethod(method string) bool {
	for _, m := range ConfirmationMethods {
		if m == method {
			return true
		}
	}
	return false
}
