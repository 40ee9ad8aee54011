package verification

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"renteo/models"

	"gorm.io/gorm"
)

const (
	// OTPValidity is how long an issued code stays verifiable.
	OTPValidity = 5 * time.Minute
	// ResendCooldown is the minimum gap between two sends for the same purpose.
	ResendCooldown = 60 * time.Second
)

var (
	// ErrCodeInvalid covers a malformed, unknown or mismatched code.
	ErrCodeInvalid = errors.New("invalid OTP code")
	// ErrCodeExpired means the code matched but its validity window passed;
	// a fresh send cycle is required.
	ErrCodeExpired = errors.New("OTP code expired")
)

// CooldownError means a resend was requested before the cooldown elapsed.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", int(e.RetryAfter.Seconds()))
}

// OTPService issues and verifies one-time codes backed by the otps table.
type OTPService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOTPService builds an OTP service bound to the given database handle.
func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{db: db, now: time.Now}
}

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// Issue creates a fresh code for the user and purpose, enforcing the resend
// cooldown and invalidating any previously issued codes. Only the most
// recently issued code can ever verify.
func (s *OTPService) Issue(userID uint, email, mobile, purpose string) (*models.OTP, error) {
	var last models.OTP
	err := s.db.Where("user_id = ? AND purpose = ? AND is_deleted = ?", userID, purpose, false).
		Order("created_at desc").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "otp lookup", Err: err}
	}
	if err == nil {
		elapsed := s.now().Sub(last.CreatedAt)
		if elapsed < ResendCooldown {
			return nil, &CooldownError{RetryAfter: ResendCooldown - elapsed}
		}
	}

	record := models.OTP{
		UserID:      userID,
		Email:       email,
		Mobile:      mobile,
		Code:        GenerateOTP(),
		Purpose:     purpose,
		ExpiresAt:   s.now().Add(OTPValidity),
		Description: "One-time verification code",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// retire earlier codes so only the latest one can match
		if err := tx.Model(&models.OTP{}).
			Where("user_id = ? AND purpose = ? AND is_used = ?", userID, purpose, false).
			Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "otp issue", Err: err}
	}

	return &record, nil
}

// Verify checks the submitted code against the most recently issued one.
// Success consumes the code; an expired code forces a fresh send cycle.
func (s *OTPService) Verify(userID uint, code, purpose string) error {
	if !IsValidOTPCode(code) {
		return ErrCodeInvalid
	}

	var record models.OTP
	err := s.db.Where("user_id = ? AND purpose = ? AND is_used = ? AND is_deleted = ?",
		userID, purpose, false, false).
		Order("created_at desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCodeInvalid
	}
	if err != nil {
		return &PersistenceError{Op: "otp lookup", Err: err}
	}

	if record.ExpiresAt.Before(s.now()) {
		return ErrCodeExpired
	}
	if record.Code != code {
		return ErrCodeInvalid
	}

	record.IsUsed = true
	if err := s.db.Save(&record).Error; err != nil {
		return &PersistenceError{Op: "otp consume", Err: err}
	}
	return nil
}
