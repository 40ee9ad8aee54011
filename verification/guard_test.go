package verification

import (
	"testing"

	"renteo/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

// recordWithProgress builds a record whose first n steps are completed and
// whose current step sits at position cur.
func recordWithProgress(completed int, cur Step) *models.VerificationRecord {
	statuses := datatypes.JSONMap{}
	for i, step := range StepOrder {
		if i < completed {
			statuses[string(step)] = string(StatusCompleted)
		} else {
			statuses[string(step)] = string(StatusNotStarted)
		}
	}
	return &models.VerificationRecord{
		CurrentStep:  string(cur),
		StepStatuses: statuses,
	}
}

func TestNavigationNeverSkipsAhead(t *testing.T) {
	// For every amount of progress, exactly the completed steps, the current
	// step and the single next step are reachable.
	for completed := 0; completed < len(StepOrder); completed++ {
		cur := StepOrder[0]
		if completed > 0 {
			cur = StepOrder[completed-1]
		}
		rec := recordWithProgress(completed, cur)

		for i, target := range StepOrder {
			reachable := CanNavigateToStep(rec, target)
			expected := target == cur || i < completed || i == completed
			assert.Equal(t, expected, reachable,
				"completed=%d target=%s", completed, target)
		}
	}
}

func TestNavigationRejectsUnknownStep(t *testing.T) {
	rec := recordWithProgress(2, StepDocumentUpload)
	assert.False(t, CanNavigateToStep(rec, Step("payment_details")))
	assert.False(t, CanNavigateToStep(nil, StepPersonalInfo))
}

func TestCompletedStepsStayReachable(t *testing.T) {
	rec := recordWithProgress(4, StepAddress)
	for _, step := range StepOrder[:4] {
		assert.True(t, CanNavigateToStep(rec, step), "step %s", step)
	}
}

func TestStatusesAreAuthoritativeOverCurrentStep(t *testing.T) {
	// The current-step pointer lags behind, but completion still unlocks the
	// step after the furthest completed one.
	rec := recordWithProgress(3, StepPersonalInfo)
	assert.True(t, CanNavigateToStep(rec, StepPhone))
	assert.False(t, CanNavigateToStep(rec, StepAddress))
}

func TestBackwardNavigation(t *testing.T) {
	rec := recordWithProgress(2, StepSelfie)
	assert.True(t, CanGoBack(rec))
	assert.Equal(t, StepDocumentUpload, PreviousStep(rec))

	first := recordWithProgress(0, StepPersonalInfo)
	assert.False(t, CanGoBack(first))
	assert.Equal(t, StepPersonalInfo, PreviousStep(first))
}

func TestCanAdvanceRevalidatesCurrentStep(t *testing.T) {
	rec := recordWithProgress(0, StepPersonalInfo)
	ok, reason := CanAdvance(rec)
	assert.False(t, ok)
	assert.Contains(t, reason, "Personal Information")

	setStatus(rec, StepPersonalInfo, StatusCompleted)
	ok, reason = CanAdvance(rec)
	assert.True(t, ok)
	assert.Empty(t, reason)
	assert.Equal(t, StepDocumentUpload, NextStep(rec))
}

func TestCanAdvanceWhileProcessing(t *testing.T) {
	rec := recordWithProgress(6, StepProcessingStatus)
	setStatus(rec, StepProcessingStatus, StatusInProgress)

	ok, reason := CanAdvance(rec)
	assert.False(t, ok)
	assert.Contains(t, reason, "reviewed")

	// Approval unblocks the final transition.
	setStatus(rec, StepProcessingStatus, StatusCompleted)
	ok, _ = CanAdvance(rec)
	assert.True(t, ok)
	assert.Equal(t, StepCompletion, NextStep(rec))
}

func TestCanAdvanceStopsAtCompletion(t *testing.T) {
	rec := recordWithProgress(len(StepOrder), StepCompletion)
	ok, reason := CanAdvance(rec)
	assert.False(t, ok)
	assert.Contains(t, reason, "complete")
}

func TestResumeLandsOnFirstIncompleteStep(t *testing.T) {
	assert.Equal(t, StepPersonalInfo, ResumeStep(recordWithProgress(0, StepPersonalInfo)))
	assert.Equal(t, StepPhone, ResumeStep(recordWithProgress(3, StepSelfie)))
	assert.Equal(t, StepCompletion, ResumeStep(recordWithProgress(len(StepOrder), StepCompletion)))
}

func TestResumeSkipsCompletedStepsOutOfOrder(t *testing.T) {
	rec := recordWithProgress(0, StepPersonalInfo)
	setStatus(rec, StepPersonalInfo, StatusCompleted)
	setStatus(rec, StepSelfie, StatusCompleted)

	// The gap at document_upload wins over the later completed selfie.
	assert.Equal(t, StepDocumentUpload, ResumeStep(rec))
}
