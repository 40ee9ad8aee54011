package verificationController

import (
	"errors"
	"log"
	"path/filepath"
	"time"

	"renteo/config"
	"renteo/database"
	"renteo/middleware"
	"renteo/models"
	"renteo/utils"
	"renteo/verification"

	"github.com/gofiber/fiber/v2"
)

// storeForUser builds a per-request store initialized with the caller's record.
// Initialize is idempotent, so repeated requests converge on the same row.
func storeForUser(c *fiber.Ctx) (*verification.Store, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, errors.New("missing user id")
	}
	role, _ := c.Locals("userRole").(string)
	if role != verification.RoleHost {
		role = verification.RoleRenter
	}

	store := verification.NewStore(database.Database.Db)
	if _, err := store.Initialize(userId, role); err != nil {
		return nil, err
	}
	return store, nil
}

// respondStoreError maps the store's error taxonomy onto HTTP responses.
func respondStoreError(c *fiber.Ctx, err error) error {
	var validation *verification.ValidationError
	if errors.As(err, &validation) {
		return middleware.ValidationErrorResponse(c, validation.Fields)
	}

	var precondition *verification.PreconditionError
	if errors.As(err, &precondition) {
		missing := make([]string, len(precondition.Missing))
		for i, s := range precondition.Missing {
			missing[i] = string(s)
		}
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, precondition.Error(), fiber.Map{
			"missingSteps": missing,
		})
	}

	var initialization *verification.InitializationError
	if errors.As(err, &initialization) {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Could not load verification record. Please retry.", nil)
	}

	log.Printf("Verification error: %v", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save changes. Please try again.", nil)
}

func recordPayload(store *verification.Store) fiber.Map {
	rec := store.Record()
	docs, err := store.Documents()
	if err != nil {
		docs = nil
	}

	// navigation map for the stepper UI
	reachable := make(map[string]bool, len(verification.StepOrder))
	for _, step := range verification.StepOrder {
		reachable[string(step)] = verification.CanNavigateToStep(rec, step)
	}

	return fiber.Map{
		"record":        rec,
		"documents":     docs,
		"resumeStep":    verification.ResumeStep(rec),
		"reachable":     reachable,
		"steps":         verification.StepOrder,
		"stepInfo":      verification.Registry,
		"requiredDocs":  verification.RequiredDocumentTypes(rec.UserRole),
		"optionalDocs":  verification.OptionalDocumentTypes(),
	}
}

// GetRecord loads (creating if needed) the caller's verification record.
func GetRecord(c *fiber.Ctx) error {
	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification record.", recordPayload(store))
}

// UpdatePersonalInfo saves the personal-info step.
func UpdatePersonalInfo(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPersonalInfo").(*verification.PersonalInfoInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.UpdatePersonalInfo(*reqData); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Personal info saved.", recordPayload(store))
}

// UploadDocument stores one document file and upserts its entry by type.
func UploadDocument(c *fiber.Ctx) error {
	docType := verification.DocumentType(c.FormValue("type"))
	if !verification.IsKnownDocumentType(docType) {
		return middleware.ValidationErrorResponse(c, map[string]string{"type": "Unknown document type!"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "A document file is required!"})
	}

	if fieldErrors := verification.ValidateDocumentFile(docType, file.Filename, file.Size); len(fieldErrors) > 0 {
		return middleware.ValidationErrorResponse(c, fieldErrors)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	savedPath, err := utils.SaveUploadedFile(file, filepath.Join(config.AppConfig.UploadDir, "documents"))
	if err != nil {
		log.Printf("Error saving document upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store the uploaded file!", nil)
	}

	err = store.UpdateDocument(verification.DocumentUpdate{
		Type:     docType,
		FileName: file.Filename,
		FileURL:  utils.GetFileURL(savedPath),
		FileSize: file.Size,
	})
	if err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document uploaded.", recordPayload(store))
}

// RemoveDocument clears a document entry back to not started.
func RemoveDocument(c *fiber.Ctx) error {
	docType := verification.DocumentType(c.Params("type"))

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.UpdateDocument(verification.DocumentUpdate{Type: docType, Remove: true}); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document removed.", recordPayload(store))
}

// UploadSelfie stores the selfie image and completes the selfie step.
func UploadSelfie(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "A selfie image is required!"})
	}

	if fieldErrors := verification.ValidateSelfieFile(file.Filename, file.Size); len(fieldErrors) > 0 {
		return middleware.ValidationErrorResponse(c, fieldErrors)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	savedPath, err := utils.SaveUploadedFile(file, filepath.Join(config.AppConfig.UploadDir, "selfies"))
	if err != nil {
		log.Printf("Error saving selfie upload: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store the uploaded file!", nil)
	}

	if err := store.CompleteSelfieVerification(utils.GetFileURL(savedPath)); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Selfie verified.", recordPayload(store))
}

// SendPhoneOTP issues and delivers a code for the phone-verification step.
func SendPhoneOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Mobile string `json:"mobile"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if !verification.IsValidMobile(reqData.Mobile) {
		return middleware.ValidationErrorResponse(c, map[string]string{"mobile": "Invalid mobile number!"})
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}
	rec := store.Record()

	otpService := verification.NewOTPService(database.Database.Db)
	otpRecord, err := otpService.Issue(rec.UserID, "", reqData.Mobile, "phone_verification")
	if err != nil {
		var cooldown *verification.CooldownError
		if errors.As(err, &cooldown) {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, cooldown.Error(), fiber.Map{
				"retryAfterSeconds": int(cooldown.RetryAfter.Seconds()),
			})
		}
		return respondStoreError(c, err)
	}

	// The sent flag is applied before delivery so the UI can show the code
	// entry screen immediately; a failed send only surfaces a retryable error.
	sentAt := time.Now()
	countryCode := config.AppConfig.CountryCode
	err = store.UpdatePhoneVerification(verification.PhonePatch{
		PhoneNumber:      &reqData.Mobile,
		CountryCode:      &countryCode,
		LastSentAt:       &sentAt,
		IncrementAttempt: true,
	})
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := utils.SendOTPToMobile(reqData.Mobile, otpRecord.Code); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to send OTP to mobile. Please resend.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", fiber.Map{
		"attemptCount": store.Record().Phone.AttemptCount,
	})
}

// VerifyPhoneOTP checks the submitted code and completes the phone step.
func VerifyPhoneOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Code string `json:"code"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}
	rec := store.Record()

	otpService := verification.NewOTPService(database.Database.Db)
	if err := otpService.Verify(rec.UserID, reqData.Code, "phone_verification"); err != nil {
		if errors.Is(err, verification.ErrCodeExpired) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired! Request a new code.", nil)
		}
		if errors.Is(err, verification.ErrCodeInvalid) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP!", nil)
		}
		return respondStoreError(c, err)
	}

	verified := true
	if err := store.UpdatePhoneVerification(verification.PhonePatch{IsVerified: &verified}); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phone verified.", recordPayload(store))
}

// UpdateAddress saves the address-confirmation step.
func UpdateAddress(c *fiber.Ctx) error {
	reqData := new(struct {
		Method  *string `json:"method"`
		Confirm *bool   `json:"confirm"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	err = store.UpdateAddressConfirmation(verification.AddressPatch{
		Method:  reqData.Method,
		Confirm: reqData.Confirm,
	})
	if err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Address confirmation saved.", recordPayload(store))
}

// Navigate jumps to an arbitrary step when the guard allows it.
func Navigate(c *fiber.Ctx) error {
	reqData := new(struct {
		Step string `json:"step"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	target := verification.Step(reqData.Step)
	if !verification.CanNavigateToStep(store.Record(), target) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "That step is not unlocked yet!", nil)
	}

	if err := store.SetCurrentStep(target); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Step changed.", recordPayload(store))
}

// Next advances to the following step after re-validating the current one.
func Next(c *fiber.Ctx) error {
	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	rec := store.Record()
	allowed, reason := verification.CanAdvance(rec)
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, reason, nil)
	}

	if err := store.SetCurrentStep(verification.NextStep(rec)); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved to next step.", recordPayload(store))
}

// Previous moves one step back; always permitted and never un-completes anything.
func Previous(c *fiber.Ctx) error {
	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	rec := store.Record()
	if !verification.CanGoBack(rec) {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Already at the first step!", nil)
	}

	if err := store.SetCurrentStep(verification.PreviousStep(rec)); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved to previous step.", recordPayload(store))
}

// SubmitForReview hands the record to the review queue.
func SubmitForReview(c *fiber.Ctx) error {
	reqData := new(struct {
		AcceptTerms       bool `json:"acceptTerms"`
		AcceptDataConsent bool `json:"acceptDataConsent"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.SubmitForReview(reqData.AcceptTerms, reqData.AcceptDataConsent); err != nil {
		return respondStoreError(c, err)
	}

	rec := store.Record()
	notifyUser(rec.UserID, "verification_submitted", "Verification submitted",
		"Your identity verification was submitted and is now in review.")

	var user models.User
	if err := database.Database.Db.First(&user, rec.UserID).Error; err == nil {
		if err := utils.SendVerificationSubmittedEmail(user.Email, user.Name); err != nil {
			log.Printf("Error sending submission email: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submitted for review.", recordPayload(store))
}

// GetStatus is the lightweight endpoint the processing step polls.
func GetStatus(c *fiber.Ctx) error {
	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}
	if err := store.RefreshData(); err != nil {
		return respondStoreError(c, err)
	}

	rec := store.Record()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification status.", fiber.Map{
		"overallStatus":   rec.OverallStatus,
		"currentStep":     rec.CurrentStep,
		"stepStatuses":    rec.StepStatuses,
		"rejectionReason": rec.RejectionReason,
	})
}

// Reset restarts the whole workflow; the caller must confirm explicitly.
func Reset(c *fiber.Ctx) error {
	reqData := new(struct {
		Confirm bool `json:"confirm"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if !reqData.Confirm {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Reset must be explicitly confirmed!", nil)
	}

	store, err := storeForUser(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.Reset(); err != nil {
		return respondStoreError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification restarted.", recordPayload(store))
}

func notifyUser(userID uint, notifType, title, body string) {
	notification := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}
	if err := database.Database.Db.Create(&notification).Error; err != nil {
		log.Printf("Error saving notification: %v", err)
	}
}
