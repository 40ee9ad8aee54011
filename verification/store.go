package verification

import (
	"errors"
	"time"

	"renteo/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is the single source of truth for one user's verification record.
// Every read and write of the record goes through it. Mutations are atomic:
// the merge, status recomputation and persistence either all succeed or the
// prior in-memory state is retained.
type Store struct {
	db     *gorm.DB
	now    func() time.Time
	record *models.VerificationRecord
}

// NewStore builds a store bound to the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record returns the current in-memory record, nil before Initialize.
func (s *Store) Record() *models.VerificationRecord {
	return s.record
}

// Initialize loads the user's verification record, creating a fresh one when
// none exists. Calling it again for the same user is a no-op.
func (s *Store) Initialize(userID uint, role string) (*models.VerificationRecord, error) {
	if s.record != nil && s.record.UserID == userID {
		return s.record, nil
	}

	var rec models.VerificationRecord
	err := s.db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = newRecord(userID, role)
		if err := s.db.Create(&rec).Error; err != nil {
			return nil, &InitializationError{Err: err}
		}
	} else if err != nil {
		return nil, &InitializationError{Err: err}
	}

	s.record = &rec
	return s.record, nil
}

func newRecord(userID uint, role string) models.VerificationRecord {
	statuses := datatypes.JSONMap{}
	for _, step := range StepOrder {
		statuses[string(step)] = string(StatusNotStarted)
	}
	statuses[string(StepPersonalInfo)] = string(StatusInProgress)

	return models.VerificationRecord{
		UserID:        userID,
		UserRole:      role,
		CurrentStep:   string(StepPersonalInfo),
		StepStatuses:  statuses,
		OverallStatus: string(StatusNotStarted),
	}
}

// StatusOf reads a step's status from the record's status map.
func StatusOf(rec *models.VerificationRecord, step Step) Status {
	if rec == nil || rec.StepStatuses == nil {
		return StatusNotStarted
	}
	if v, ok := rec.StepStatuses[string(step)].(string); ok && v != "" {
		return Status(v)
	}
	return StatusNotStarted
}

func setStatus(rec *models.VerificationRecord, step Step, status Status) {
	if rec.StepStatuses == nil {
		rec.StepStatuses = datatypes.JSONMap{}
	}
	rec.StepStatuses[string(step)] = string(status)
}

// snapshot returns a deep enough copy to mutate without touching s.record.
func (s *Store) snapshot() models.VerificationRecord {
	rec := *s.record
	statuses := datatypes.JSONMap{}
	for k, v := range s.record.StepStatuses {
		statuses[k] = v
	}
	rec.StepStatuses = statuses
	return rec
}

func (s *Store) requireInitialized() error {
	if s.record == nil {
		return &PreconditionError{Reason: "verification record not initialized"}
	}
	return nil
}

// recomputeOverall derives the aggregate status from the step statuses.
func recomputeOverall(rec *models.VerificationRecord) {
	switch {
	case StatusOf(rec, StepCompletion) == StatusCompleted:
		rec.OverallStatus = string(StatusCompleted)
	case StatusOf(rec, StepProcessingStatus) == StatusInProgress ||
		StatusOf(rec, StepProcessingStatus) == StatusPendingReview:
		rec.OverallStatus = string(StatusPendingReview)
	default:
		for _, step := range StepOrder {
			if StatusOf(rec, step) == StatusCompleted {
				rec.OverallStatus = string(StatusInProgress)
				return
			}
		}
		rec.OverallStatus = string(StatusNotStarted)
	}
}

// persist saves the mutated copy and swaps it in on success only.
func (s *Store) persist(op string, rec *models.VerificationRecord) error {
	if err := s.db.Save(rec).Error; err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	s.record = rec
	return nil
}

// UpdatePersonalInfo validates and merges the personal-info slice of the
// record, marking the step completed. On validation failure nothing changes.
func (s *Store) UpdatePersonalInfo(info PersonalInfoInput) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	if fieldErrors := ValidatePersonalInfo(info); len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}

	rec := s.snapshot()
	rec.PersonalInfo = models.PersonalInfo{
		FullName:          info.FullName,
		DateOfBirth:       info.DateOfBirth,
		NationalID:        info.NationalID,
		Phone:             info.Phone,
		Email:             info.Email,
		Street:            info.Street,
		Area:              info.Area,
		City:              info.City,
		PostalCode:        info.PostalCode,
		EmergencyName:     info.EmergencyName,
		EmergencyRelation: info.EmergencyRelation,
		EmergencyPhone:    info.EmergencyPhone,
	}
	setStatus(&rec, StepPersonalInfo, StatusCompleted)
	recomputeOverall(&rec)

	return s.persist("personal info", &rec)
}

// DocumentUpdate describes an upload (or removal) of one document type.
type DocumentUpdate struct {
	Type     DocumentType
	FileName string
	FileURL  string
	FileSize int64
	Remove   bool
}

// UpdateDocument upserts a document by type. A removal resets the entry's
// status and clears its file metadata instead of erroring. The document step
// is completed only when every required type for the role has a completed
// entry.
func (s *Store) UpdateDocument(update DocumentUpdate) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	if !IsKnownDocumentType(update.Type) {
		return &ValidationError{Fields: map[string]string{"type": "Unknown document type!"}}
	}
	if !update.Remove {
		if fieldErrors := ValidateDocumentFile(update.Type, update.FileName, update.FileSize); len(fieldErrors) > 0 {
			return &ValidationError{Fields: fieldErrors}
		}
	}

	rec := s.snapshot()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var doc models.VerificationDocument
		err := tx.Where("record_id = ? AND type = ?", rec.ID, string(update.Type)).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if update.Remove {
				return nil // removing an absent document is a no-op
			}
			doc = models.VerificationDocument{
				RecordID: rec.ID,
				UserID:   rec.UserID,
				Type:     string(update.Type),
			}
		} else if err != nil {
			return err
		}

		if update.Remove {
			doc.FileName = ""
			doc.FileURL = ""
			doc.FileSize = 0
			doc.UploadedAt = nil
			doc.Status = string(StatusNotStarted)
		} else {
			uploadedAt := s.now()
			doc.FileName = update.FileName
			doc.FileURL = update.FileURL
			doc.FileSize = update.FileSize
			doc.UploadedAt = &uploadedAt
			doc.Status = string(StatusCompleted)
		}

		if err := tx.Save(&doc).Error; err != nil {
			return err
		}

		complete, err := requiredDocumentsComplete(tx, &rec)
		if err != nil {
			return err
		}
		if complete {
			setStatus(&rec, StepDocumentUpload, StatusCompleted)
		} else if StatusOf(&rec, StepDocumentUpload) == StatusCompleted {
			setStatus(&rec, StepDocumentUpload, StatusInProgress)
		} else if StatusOf(&rec, StepDocumentUpload) == StatusNotStarted && !update.Remove {
			setStatus(&rec, StepDocumentUpload, StatusInProgress)
		}
		recomputeOverall(&rec)

		return tx.Save(&rec).Error
	})
	if err != nil {
		return &PersistenceError{Op: "document", Err: err}
	}

	s.record = &rec
	return nil
}

func requiredDocumentsComplete(tx *gorm.DB, rec *models.VerificationRecord) (bool, error) {
	var docs []models.VerificationDocument
	if err := tx.Where("record_id = ? AND is_deleted = ?", rec.ID, false).Find(&docs).Error; err != nil {
		return false, err
	}

	byType := make(map[string]string, len(docs))
	for _, d := range docs {
		byType[d.Type] = d.Status
	}
	for _, required := range RequiredDocumentTypes(rec.UserRole) {
		if byType[string(required)] != string(StatusCompleted) {
			return false, nil
		}
	}
	return true, nil
}

// Documents returns the record's document entries, one per type.
func (s *Store) Documents() ([]models.VerificationDocument, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	var docs []models.VerificationDocument
	err := s.db.Where("record_id = ? AND is_deleted = ?", s.record.ID, false).
		Order("type asc").
		Find(&docs).Error
	if err != nil {
		return nil, &PersistenceError{Op: "document list", Err: err}
	}
	return docs, nil
}

// HasCompletedDocument reports whether a completed upload of the given type exists.
func (s *Store) HasCompletedDocument(docType DocumentType) (bool, error) {
	docs, err := s.Documents()
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.Type == string(docType) && d.Status == string(StatusCompleted) {
			return true, nil
		}
	}
	return false, nil
}

// PhonePatch is a partial update of the phone-verification slice.
type PhonePatch struct {
	PhoneNumber      *string
	CountryCode      *string
	LastSentAt       *time.Time
	IsVerified       *bool
	IncrementAttempt bool
}

// UpdatePhoneVerification merges the patch. Setting IsVerified marks the step
// completed. The attempt count only ever increases.
func (s *Store) UpdatePhoneVerification(patch PhonePatch) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	rec := s.snapshot()

	if patch.PhoneNumber != nil {
		if !IsValidMobile(*patch.PhoneNumber) {
			return &ValidationError{Fields: map[string]string{"phoneNumber": "Invalid mobile number!"}}
		}
		rec.Phone.PhoneNumber = *patch.PhoneNumber
	}
	if patch.CountryCode != nil {
		rec.Phone.CountryCode = *patch.CountryCode
	}
	if patch.LastSentAt != nil {
		rec.Phone.LastSentAt = patch.LastSentAt
	}
	if patch.IncrementAttempt {
		rec.Phone.AttemptCount++
	}
	if patch.IsVerified != nil && *patch.IsVerified {
		rec.Phone.IsVerified = true
		setStatus(&rec, StepPhone, StatusCompleted)
	} else if StatusOf(&rec, StepPhone) == StatusNotStarted {
		setStatus(&rec, StepPhone, StatusInProgress)
	}
	recomputeOverall(&rec)

	return s.persist("phone verification", &rec)
}

// AddressPatch is a partial update of the address-confirmation slice.
type AddressPatch struct {
	Method  *string
	Confirm *bool
}

// UpdateAddressConfirmation merges the patch. Confirming requires personal
// info (the address being confirmed), a selected method, and a completed
// proof-of-address document; the confirmed address is copied from personal
// info at confirmation time.
func (s *Store) UpdateAddressConfirmation(patch AddressPatch) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	if s.record.PersonalInfo.Street == "" || s.record.PersonalInfo.City == "" {
		return &PreconditionError{
			Missing: []Step{StepPersonalInfo},
			Reason:  "address confirmation requires personal info",
		}
	}

	rec := s.snapshot()

	if patch.Method != nil {
		if !IsValidConfirmationMethod(*patch.Method) {
			return &ValidationError{Fields: map[string]string{"method": "Invalid confirmation method!"}}
		}
		rec.Address.Method = *patch.Method
	}

	if patch.Confirm != nil && *patch.Confirm {
		if rec.Address.Method == "" {
			return &PreconditionError{Reason: "a confirmation method must be selected"}
		}
		hasProof, err := s.HasCompletedDocument(DocProofOfAddress)
		if err != nil {
			return err
		}
		if !hasProof {
			return &PreconditionError{
				Missing: []Step{StepDocumentUpload},
				Reason:  "a proof-of-address document must be uploaded first",
			}
		}

		confirmedAt := s.now()
		rec.Address.Street = rec.PersonalInfo.Street
		rec.Address.Area = rec.PersonalInfo.Area
		rec.Address.City = rec.PersonalInfo.City
		rec.Address.PostalCode = rec.PersonalInfo.PostalCode
		rec.Address.IsConfirmed = true
		rec.Address.ConfirmedAt = &confirmedAt
		setStatus(&rec, StepAddress, StatusCompleted)
	} else if StatusOf(&rec, StepAddress) == StatusNotStarted {
		setStatus(&rec, StepAddress, StatusInProgress)
	}
	recomputeOverall(&rec)

	return s.persist("address confirmation", &rec)
}

// CompleteSelfieVerification marks the selfie step completed. The upload was
// already validated by the caller; the asset itself is stored out of band.
func (s *Store) CompleteSelfieVerification(fileURL string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	rec := s.snapshot()
	rec.SelfieCompleted = true
	if fileURL != "" {
		rec.SelfieURL = fileURL
	}
	setStatus(&rec, StepSelfie, StatusCompleted)
	recomputeOverall(&rec)

	return s.persist("selfie verification", &rec)
}

// MissingDataSteps lists the data-collection steps that are not yet completed.
func (s *Store) MissingDataSteps() []Step {
	var missing []Step
	for _, step := range DataSteps {
		if StatusOf(s.record, step) != StatusCompleted {
			missing = append(missing, step)
		}
	}
	return missing
}

// SubmitForReview advances the record into processing. All five data steps
// must be completed and both consent checkboxes accepted.
func (s *Store) SubmitForReview(acceptTerms, acceptConsent bool) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	if missing := s.MissingDataSteps(); len(missing) > 0 {
		return &PreconditionError{Missing: missing}
	}
	if !acceptTerms || !acceptConsent {
		return &PreconditionError{Reason: "terms and data consent must both be accepted"}
	}

	rec := s.snapshot()
	submittedAt := s.now()
	rec.TermsAcceptedAt = &submittedAt
	rec.ConsentAcceptedAt = &submittedAt
	rec.SubmittedAt = &submittedAt
	setStatus(&rec, StepReviewSubmit, StatusCompleted)
	setStatus(&rec, StepProcessingStatus, StatusInProgress)
	rec.CurrentStep = string(StepProcessingStatus)
	recomputeOverall(&rec)

	return s.persist("review submission", &rec)
}

// ApproveProcessing is the externally driven completion: an admin approves
// the submission, which completes the workflow and stamps completedAt.
func (s *Store) ApproveProcessing(reviewerID uint) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	if s.record.OverallStatus != string(StatusPendingReview) {
		return &PreconditionError{Reason: "record is not pending review"}
	}

	rec := s.snapshot()
	completedAt := s.now()
	setStatus(&rec, StepProcessingStatus, StatusCompleted)
	setStatus(&rec, StepCompletion, StatusCompleted)
	rec.CurrentStep = string(StepCompletion)
	rec.CompletedAt = &completedAt
	rec.ReviewedBy = &reviewerID
	rec.RejectionReason = ""
	recomputeOverall(&rec)

	return s.persist("processing approval", &rec)
}

// RejectProcessing sends the record back to the review step with a reason.
func (s *Store) RejectProcessing(reviewerID uint, reason string) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	if s.record.OverallStatus != string(StatusPendingReview) {
		return &PreconditionError{Reason: "record is not pending review"}
	}

	rec := s.snapshot()
	setStatus(&rec, StepProcessingStatus, StatusNotStarted)
	setStatus(&rec, StepReviewSubmit, StatusInProgress)
	rec.CurrentStep = string(StepReviewSubmit)
	rec.SubmittedAt = nil
	rec.ReviewedBy = &reviewerID
	rec.RejectionReason = reason
	recomputeOverall(&rec)

	return s.persist("processing rejection", &rec)
}

// SetCurrentStep moves the record to the given step. Navigation permission is
// the guard's concern; the store only refuses unknown steps. Visiting an
// untouched step opens it without changing completed statuses.
func (s *Store) SetCurrentStep(step Step) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	if !IsValidStep(step) {
		return &ValidationError{Fields: map[string]string{"step": "Unknown verification step!"}}
	}

	rec := s.snapshot()
	rec.CurrentStep = string(step)
	if StatusOf(&rec, step) == StatusNotStarted {
		setStatus(&rec, step, StatusInProgress)
	}
	recomputeOverall(&rec)

	return s.persist("step navigation", &rec)
}

// RefreshData re-reads the record from the database, reconciling local state
// with writes made by other actors (admin approval in particular).
func (s *Store) RefreshData() error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	var rec models.VerificationRecord
	err := s.db.Where("user_id = ? AND is_deleted = ?", s.record.UserID, false).First(&rec).Error
	if err != nil {
		return &PersistenceError{Op: "refresh", Err: err}
	}

	s.record = &rec
	return nil
}

// Reset restarts the workflow from scratch, clearing every step. Callers must
// require explicit confirmation before invoking this.
func (s *Store) Reset() error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	fresh := newRecord(s.record.UserID, s.record.UserRole)
	fresh.Model = s.record.Model

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// hard delete so the (record, type) unique index is free for re-uploads
		if err := tx.Unscoped().Where("record_id = ?", s.record.ID).
			Delete(&models.VerificationDocument{}).Error; err != nil {
			return err
		}
		return tx.Save(&fresh).Error
	})
	if err != nil {
		return &PersistenceError{Op: "reset", Err: err}
	}

	s.record = &fresh
	return nil
}
