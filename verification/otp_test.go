package verification

import (
	"testing"
	"time"

	"renteo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := GenerateOTP()
		assert.True(t, IsValidOTPCode(code), "got %q", code)
	}
}

func TestIssueAndVerifyConsumesCode(t *testing.T) {
	svc := NewOTPService(testDB(t))

	record, err := svc.Issue(1, "user@example.com", "22345678", "phone_verification")
	require.NoError(t, err)
	require.True(t, IsValidOTPCode(record.Code))

	require.NoError(t, svc.Verify(1, record.Code, "phone_verification"))

	// A consumed code never verifies again.
	assert.ErrorIs(t, svc.Verify(1, record.Code, "phone_verification"), ErrCodeInvalid)
}

func TestVerifyRejectsWrongAndMalformedCodes(t *testing.T) {
	svc := NewOTPService(testDB(t))

	record, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	wrong := "000000"
	if record.Code == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, svc.Verify(1, wrong, "phone_verification"), ErrCodeInvalid)
	assert.ErrorIs(t, svc.Verify(1, "12345", "phone_verification"), ErrCodeInvalid)
	assert.ErrorIs(t, svc.Verify(1, "abc123", "phone_verification"), ErrCodeInvalid)

	// A failed attempt does not consume the real code.
	require.NoError(t, svc.Verify(1, record.Code, "phone_verification"))
}

func TestVerifyIsScopedToUserAndPurpose(t *testing.T) {
	svc := NewOTPService(testDB(t))

	record, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(2, record.Code, "phone_verification"), ErrCodeInvalid)
	assert.ErrorIs(t, svc.Verify(1, record.Code, "password_reset"), ErrCodeInvalid)
	require.NoError(t, svc.Verify(1, record.Code, "phone_verification"))
}

func TestExpiredCodeForcesResend(t *testing.T) {
	svc := NewOTPService(testDB(t))
	base := time.Now()
	svc.now = func() time.Time { return base }

	record, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	// Just inside the window the code still works; just past it, it does not.
	svc.now = func() time.Time { return base.Add(OTPValidity - time.Second) }
	require.NoError(t, svc.Verify(1, record.Code, "phone_verification"))

	record2, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(OTPValidity + 6*time.Minute) }
	assert.ErrorIs(t, svc.Verify(1, record2.Code, "phone_verification"), ErrCodeExpired)
}

func TestResendCooldown(t *testing.T) {
	svc := NewOTPService(testDB(t))
	base := time.Now()
	svc.now = func() time.Time { return base }

	_, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	_, err = svc.Issue(1, "", "22345678", "phone_verification")
	var cErr *CooldownError
	require.ErrorAs(t, err, &cErr)
	assert.Greater(t, cErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, cErr.RetryAfter, ResendCooldown)

	// The cooldown is per purpose: a different flow is not throttled.
	_, err = svc.Issue(1, "", "22345678", "password_reset")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(ResendCooldown + time.Second) }
	_, err = svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)
}

func TestResendRetiresEarlierCodes(t *testing.T) {
	db := testDB(t)
	svc := NewOTPService(db)
	base := time.Now()
	svc.now = func() time.Time { return base }

	first, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(ResendCooldown + time.Second) }
	second, err := svc.Issue(1, "", "22345678", "phone_verification")
	require.NoError(t, err)

	var firstRow models.OTP
	require.NoError(t, db.First(&firstRow, first.ID).Error)
	assert.True(t, firstRow.IsUsed)

	if first.Code != second.Code {
		assert.ErrorIs(t, svc.Verify(1, first.Code, "phone_verification"), ErrCodeInvalid)
	}
	require.NoError(t, svc.Verify(1, second.Code, "phone_verification"))
}
