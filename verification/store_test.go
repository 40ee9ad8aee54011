package verification

import (
	"errors"
	"testing"
	"time"

	"renteo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.VerificationRecord{},
		&models.VerificationDocument{},
		&models.OTP{},
	))
	return db
}

func validPersonalInfo() PersonalInfoInput {
	return PersonalInfoInput{
		FullName:          "Amadou Ba",
		DateOfBirth:       "1990-05-10",
		NationalID:        "1234567890",
		Phone:             "22345678",
		Email:             "amadou@example.com",
		Street:            "Avenue Nasser 12",
		Area:              "Tevragh Zeina",
		City:              "Nouakchott",
		PostalCode:        "1001",
		EmergencyName:     "Fatima Ba",
		EmergencyRelation: "sister",
		EmergencyPhone:    "33456789",
	}
}

func uploadDocument(t *testing.T, store *Store, docType DocumentType) {
	t.Helper()
	err := store.UpdateDocument(DocumentUpdate{
		Type:     docType,
		FileName: string(docType) + ".pdf",
		FileURL:  "/uploads/" + string(docType) + ".pdf",
		FileSize: 1024,
	})
	require.NoError(t, err)
}

// completeDataSteps walks a renter record through all five data steps.
func completeDataSteps(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))
	for _, docType := range RequiredDocumentTypes(RoleRenter) {
		uploadDocument(t, store, docType)
	}
	require.NoError(t, store.CompleteSelfieVerification("/uploads/selfie.jpg"))
	verified := true
	require.NoError(t, store.UpdatePhoneVerification(PhonePatch{IsVerified: &verified}))
	method := "utility_bill"
	confirm := true
	require.NoError(t, store.UpdateAddressConfirmation(AddressPatch{Method: &method, Confirm: &confirm}))
}

func TestInitializeCreatesFreshRecord(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	rec, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	assert.Equal(t, string(StepPersonalInfo), rec.CurrentStep)
	assert.Equal(t, StatusInProgress, StatusOf(rec, StepPersonalInfo))
	for _, step := range StepOrder[1:] {
		assert.Equal(t, StatusNotStarted, StatusOf(rec, step), "step %s", step)
	}
	assert.Equal(t, string(StatusNotStarted), rec.OverallStatus)

	// Second call for the same user is a no-op.
	again, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	assert.Same(t, rec, again)

	// A separate store sees the persisted record, not a new one.
	other := NewStore(db)
	loaded, err := other.Initialize(1, RoleRenter)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
}

func TestUpdatePersonalInfoCompletesStep(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))

	rec := store.Record()
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepPersonalInfo))
	assert.Equal(t, string(StatusInProgress), rec.OverallStatus)
	assert.Equal(t, "Amadou Ba", rec.PersonalInfo.FullName)
	assert.Equal(t, "1234567890", rec.PersonalInfo.NationalID)
}

func TestUpdatePersonalInfoValidationLeavesRecordUntouched(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))

	bad := validPersonalInfo()
	bad.NationalID = "12"
	bad.Phone = "99999999"

	err = store.UpdatePersonalInfo(bad)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "nationalId")
	assert.Contains(t, vErr.Fields, "phone")

	// Prior values survive a failed update.
	rec := store.Record()
	assert.Equal(t, "1234567890", rec.PersonalInfo.NationalID)
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepPersonalInfo))
}

func TestDocumentUpsertReplacesByType(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	uploadDocument(t, store, DocNationalID)
	require.NoError(t, store.UpdateDocument(DocumentUpdate{
		Type:     DocNationalID,
		FileName: "replacement.jpg",
		FileURL:  "/uploads/replacement.jpg",
		FileSize: 2048,
	}))

	var count int64
	db.Model(&models.VerificationDocument{}).
		Where("record_id = ? AND type = ?", store.Record().ID, string(DocNationalID)).
		Count(&count)
	assert.EqualValues(t, 1, count)

	docs, err := store.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "replacement.jpg", docs[0].FileName)
}

func TestDocumentStepCompletesWhenRequiredSetIsPresent(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	required := RequiredDocumentTypes(RoleRenter)
	for i, docType := range required {
		uploadDocument(t, store, docType)
		if i < len(required)-1 {
			assert.Equal(t, StatusInProgress, StatusOf(store.Record(), StepDocumentUpload))
		}
	}
	assert.Equal(t, StatusCompleted, StatusOf(store.Record(), StepDocumentUpload))

	// Removing a required document reopens the step.
	require.NoError(t, store.UpdateDocument(DocumentUpdate{Type: DocDriverLicense, Remove: true}))
	assert.Equal(t, StatusInProgress, StatusOf(store.Record(), StepDocumentUpload))
}

func TestHostRequiresVehicleDocuments(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(7, RoleHost)
	require.NoError(t, err)

	for _, docType := range RequiredDocumentTypes(RoleRenter) {
		uploadDocument(t, store, docType)
	}
	assert.Equal(t, StatusInProgress, StatusOf(store.Record(), StepDocumentUpload))

	uploadDocument(t, store, DocVehicleRegistration)
	uploadDocument(t, store, DocVehicleOwnership)
	assert.Equal(t, StatusCompleted, StatusOf(store.Record(), StepDocumentUpload))
}

func TestDocumentRejectsUnknownTypeAndBadFile(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	var vErr *ValidationError
	err = store.UpdateDocument(DocumentUpdate{Type: "tax_return", FileName: "a.pdf", FileSize: 10})
	require.ErrorAs(t, err, &vErr)

	err = store.UpdateDocument(DocumentUpdate{Type: DocNationalID, FileName: "a.exe", FileSize: 10})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "file")

	err = store.UpdateDocument(DocumentUpdate{Type: DocNationalID, FileName: "a.pdf", FileSize: MaxDocumentSize + 1})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "fileSize")
}

func TestPhoneAttemptCountOnlyIncreases(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	mobile := "22345678"
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.UpdatePhoneVerification(PhonePatch{
			PhoneNumber:      &mobile,
			IncrementAttempt: true,
		}))
		assert.Equal(t, i, store.Record().Phone.AttemptCount)
	}

	// Patches without the increment flag never reset the count.
	verified := true
	require.NoError(t, store.UpdatePhoneVerification(PhonePatch{IsVerified: &verified}))
	assert.Equal(t, 3, store.Record().Phone.AttemptCount)
	assert.Equal(t, StatusCompleted, StatusOf(store.Record(), StepPhone))
}

func TestAddressConfirmationPreconditions(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	confirm := true
	method := "utility_bill"

	// No personal info yet: nothing to confirm.
	err = store.UpdateAddressConfirmation(AddressPatch{Method: &method, Confirm: &confirm})
	var pErr *PreconditionError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, []Step{StepPersonalInfo}, pErr.Missing)

	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))

	// Still no proof-of-address document.
	err = store.UpdateAddressConfirmation(AddressPatch{Method: &method, Confirm: &confirm})
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, []Step{StepDocumentUpload}, pErr.Missing)

	uploadDocument(t, store, DocProofOfAddress)

	// Confirming without a method selected is refused.
	err = store.UpdateAddressConfirmation(AddressPatch{Confirm: &confirm})
	require.ErrorAs(t, err, &pErr)
	assert.Empty(t, pErr.Missing)

	require.NoError(t, store.UpdateAddressConfirmation(AddressPatch{Method: &method, Confirm: &confirm}))
	rec := store.Record()
	assert.True(t, rec.Address.IsConfirmed)
	assert.Equal(t, rec.PersonalInfo.Street, rec.Address.Street)
	assert.Equal(t, rec.PersonalInfo.City, rec.Address.City)
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepAddress))
}

func TestSubmitBlockedNamesEveryMissingStep(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))
	require.NoError(t, store.CompleteSelfieVerification(""))

	err = store.SubmitForReview(true, true)
	var pErr *PreconditionError
	require.ErrorAs(t, err, &pErr)
	assert.ElementsMatch(t, []Step{StepDocumentUpload, StepPhone, StepAddress}, pErr.Missing)

	// A refused submission does not move the workflow.
	assert.Equal(t, string(StepPersonalInfo), store.Record().CurrentStep)
	assert.Equal(t, StatusNotStarted, StatusOf(store.Record(), StepReviewSubmit))
}

func TestSubmitRequiresBothConsents(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	completeDataSteps(t, store)

	var pErr *PreconditionError
	require.ErrorAs(t, store.SubmitForReview(true, false), &pErr)
	require.ErrorAs(t, store.SubmitForReview(false, true), &pErr)
	require.NoError(t, store.SubmitForReview(true, true))
}

func TestSubmitApproveCompletesWorkflow(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	completeDataSteps(t, store)

	require.NoError(t, store.SubmitForReview(true, true))
	rec := store.Record()
	assert.Equal(t, string(StepProcessingStatus), rec.CurrentStep)
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepReviewSubmit))
	assert.Equal(t, StatusInProgress, StatusOf(rec, StepProcessingStatus))
	assert.Equal(t, string(StatusPendingReview), rec.OverallStatus)
	assert.NotNil(t, rec.SubmittedAt)
	assert.NotNil(t, rec.TermsAcceptedAt)

	require.NoError(t, store.ApproveProcessing(42))
	rec = store.Record()
	assert.Equal(t, string(StepCompletion), rec.CurrentStep)
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepProcessingStatus))
	assert.Equal(t, StatusCompleted, StatusOf(rec, StepCompletion))
	assert.Equal(t, string(StatusCompleted), rec.OverallStatus)
	assert.NotNil(t, rec.CompletedAt)
	require.NotNil(t, rec.ReviewedBy)
	assert.EqualValues(t, 42, *rec.ReviewedBy)
}

func TestApproveRequiresPendingReview(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)

	var pErr *PreconditionError
	require.ErrorAs(t, store.ApproveProcessing(42), &pErr)
}

func TestRejectSendsRecordBackToReview(t *testing.T) {
	store := NewStore(testDB(t))
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	completeDataSteps(t, store)
	require.NoError(t, store.SubmitForReview(true, true))

	require.NoError(t, store.RejectProcessing(42, "document unreadable"))
	rec := store.Record()
	assert.Equal(t, string(StepReviewSubmit), rec.CurrentStep)
	assert.Equal(t, StatusInProgress, StatusOf(rec, StepReviewSubmit))
	assert.Equal(t, StatusNotStarted, StatusOf(rec, StepProcessingStatus))
	assert.Equal(t, "document unreadable", rec.RejectionReason)
	assert.Nil(t, rec.SubmittedAt)

	// Data steps stay completed, so the user can resubmit directly.
	for _, step := range DataSteps {
		assert.Equal(t, StatusCompleted, StatusOf(rec, step))
	}
	require.NoError(t, store.SubmitForReview(true, true))
}

func TestRefreshDataPicksUpExternalWrites(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	completeDataSteps(t, store)
	require.NoError(t, store.SubmitForReview(true, true))

	// An admin approves through a different store instance.
	adminStore := NewStore(db)
	_, err = adminStore.Initialize(1, RoleRenter)
	require.NoError(t, err)
	require.NoError(t, adminStore.ApproveProcessing(9))

	assert.Equal(t, string(StatusPendingReview), store.Record().OverallStatus)
	require.NoError(t, store.RefreshData())
	assert.Equal(t, string(StatusCompleted), store.Record().OverallStatus)
}

func TestResetClearsEverything(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	rec, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	originalID := rec.ID
	completeDataSteps(t, store)

	require.NoError(t, store.Reset())

	fresh := store.Record()
	assert.Equal(t, originalID, fresh.ID)
	assert.Equal(t, string(StepPersonalInfo), fresh.CurrentStep)
	assert.Equal(t, StatusInProgress, StatusOf(fresh, StepPersonalInfo))
	for _, step := range StepOrder[1:] {
		assert.Equal(t, StatusNotStarted, StatusOf(fresh, step))
	}
	assert.Empty(t, fresh.PersonalInfo.FullName)
	assert.False(t, fresh.Phone.IsVerified)

	var count int64
	db.Unscoped().Model(&models.VerificationDocument{}).Where("record_id = ?", originalID).Count(&count)
	assert.EqualValues(t, 0, count)

	// Re-uploading after a reset must not trip the per-type uniqueness.
	uploadDocument(t, store, DocNationalID)
}

func TestUninitializedStoreRefusesMutations(t *testing.T) {
	store := NewStore(testDB(t))

	var pErr *PreconditionError
	require.ErrorAs(t, store.UpdatePersonalInfo(validPersonalInfo()), &pErr)
	require.ErrorAs(t, store.SubmitForReview(true, true), &pErr)
	require.ErrorAs(t, store.Reset(), &pErr)
}

func TestInitializationErrorWrapsCause(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.VerificationRecord{}))

	store := NewStore(db)
	_, err := store.Initialize(1, RoleRenter)
	var iErr *InitializationError
	require.ErrorAs(t, err, &iErr)
	assert.NotNil(t, errors.Unwrap(iErr))
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	require.NoError(t, store.UpdatePersonalInfo(validPersonalInfo()))

	require.NoError(t, db.Migrator().DropTable(&models.VerificationRecord{}))

	verified := true
	err = store.UpdatePhoneVerification(PhonePatch{IsVerified: &verified})
	var perErr *PersistenceError
	require.ErrorAs(t, err, &perErr)

	// The failed mutation must not leak into the in-memory record.
	assert.False(t, store.Record().Phone.IsVerified)
	assert.Equal(t, StatusNotStarted, StatusOf(store.Record(), StepPhone))
}

func TestStoreNowIsInjectable(t *testing.T) {
	store := NewStore(testDB(t))
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	_, err := store.Initialize(1, RoleRenter)
	require.NoError(t, err)
	completeDataSteps(t, store)
	require.NoError(t, store.SubmitForReview(true, true))

	require.NotNil(t, store.Record().SubmittedAt)
	assert.True(t, store.Record().SubmittedAt.Equal(fixed))
}
