package verification

// Step identifies one step of the identity verification workflow.
type Step string

const (
	StepPersonalInfo     Step = "personal_info"
	StepDocumentUpload   Step = "document_upload"
	StepSelfie           Step = "selfie_verification"
	StepPhone            Step = "phone_verification"
	StepAddress          Step = "address_confirmation"
	StepReviewSubmit     Step = "review_submit"
	StepProcessingStatus Step = "processing_status"
	StepCompletion       Step = "completion"
)

// StepOrder is the canonical, fixed ordering of the workflow.
var StepOrder = []Step{
	StepPersonalInfo,
	StepDocumentUpload,
	StepSelfie,
	StepPhone,
	StepAddress,
	StepReviewSubmit,
	StepProcessingStatus,
	StepCompletion,
}

// DataSteps are the five data-collection steps that must all be completed
// before the record can be submitted for review.
var DataSteps = []Step{
	StepPersonalInfo,
	StepDocumentUpload,
	StepSelfie,
	StepPhone,
	StepAddress,
}

// Status is the progress state of a step (and of the record overall).
type Status string

const (
	StatusNotStarted    Status = "not_started"
	StatusInProgress    Status = "in_progress"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"
)

// StepInfo is the static display metadata for a step.
type StepInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Registry maps each step to its display metadata.
var Registry = map[Step]StepInfo{
	StepPersonalInfo:     {Title: "Personal Information", Description: "Your identity details and emergency contact"},
	StepDocumentUpload:   {Title: "Document Upload", Description: "Upload the documents required for your account type"},
	StepSelfie:           {Title: "Selfie Verification", Description: "Capture or upload a selfie"},
	StepPhone:            {Title: "Phone Verification", Description: "Verify your mobile number with a one-time code"},
	StepAddress:          {Title: "Address Confirmation", Description: "Confirm your residential address"},
	StepReviewSubmit:     {Title: "Review & Submit", Description: "Review everything and submit for verification"},
	StepProcessingStatus: {Title: "Processing", Description: "Your submission is being reviewed"},
	StepCompletion:       {Title: "Completed", Description: "Your identity is verified"},
}

// StepIndex returns the position of a step in the canonical order, or -1.
func StepIndex(s Step) int {
	for i, step := range StepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// IsValidStep reports whether s is one of the canonical steps.
func IsValidStep(s Step) bool {
	return StepIndex(s) >= 0
}

// DocumentType categorizes verification document uploads.
type DocumentType string

const (
	DocNationalID          DocumentType = "national_id"
	DocProofOfAddress      DocumentType = "proof_of_address"
	DocDriverLicense       DocumentType = "driver_license"
	DocVehicleRegistration DocumentType = "vehicle_registration"
	DocVehicleOwnership    DocumentType = "vehicle_ownership"
	DocPassport            DocumentType = "passport"          // optional
	DocInsuranceHistory    DocumentType = "insurance_history" // optional
)

// RoleRenter and RoleHost are the two marketplace roles a record can belong to.
const (
	RoleRenter = "RENTER"
	RoleHost   = "HOST"
)

// RequiredDocumentTypes returns the document types a user of the given role
// must upload. Hosts additionally prove ownership of the vehicle they list.
func RequiredDocumentTypes(role string) []DocumentType {
	required := []DocumentType{DocNationalID, DocProofOfAddress, DocDriverLicense}
	if role == RoleHost {
		required = append(required, DocVehicleRegistration, DocVehicleOwnership)
	}
	return required
}

// OptionalDocumentTypes lists the role-independent optional categories.
func OptionalDocumentTypes() []DocumentType {
	return []DocumentType{DocPassport, DocInsuranceHistory}
}

// IsKnownDocumentType reports whether t is a required or optional category.
func IsKnownDocumentType(t DocumentType) bool {
	for _, d := range RequiredDocumentTypes(RoleHost) {
		if d == t {
			return true
		}
	}
	for _, d := range OptionalDocumentTypes() {
		if d == t {
			return true
		}
	}
	return false
}

// IsRequiredDocumentType reports whether t is required for the given role.
func IsRequiredDocumentType(t DocumentType, role string) bool {
	for _, d := range RequiredDocumentTypes(role) {
		if d == t {
			return true
		}
	}
	return false
}
