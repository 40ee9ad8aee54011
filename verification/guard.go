package verification

import (
	"renteo/models"
)

// highestCompletedIndex returns the index of the furthest completed step, or
// -1 when none is completed. Completion is read from the status map alone:
// statuses are authoritative, the current-step position is only advisory.
func highestCompletedIndex(rec *models.VerificationRecord) int {
	highest := -1
	for i, step := range StepOrder {
		if StatusOf(rec, step) == StatusCompleted {
			highest = i
		}
	}
	return highest
}

// CanNavigateToStep decides whether a jump to an arbitrary step is permitted:
// the current step, any completed step, and the single next unlocked step are
// reachable. Skipping ahead past an incomplete step is denied.
func CanNavigateToStep(rec *models.VerificationRecord, target Step) bool {
	if rec == nil || !IsValidStep(target) {
		return false
	}
	if target == Step(rec.CurrentStep) {
		return true
	}
	if StatusOf(rec, target) == StatusCompleted {
		return true
	}
	return StepIndex(target) == highestCompletedIndex(rec)+1
}

// CanGoBack reports whether a backward transition is allowed; it always is,
// and revisiting an earlier step never changes its completed status.
func CanGoBack(rec *models.VerificationRecord) bool {
	return rec != nil && StepIndex(Step(rec.CurrentStep)) > 0
}

// PreviousStep returns the step before the current one, or the current step
// when already at the first.
func PreviousStep(rec *models.VerificationRecord) Step {
	idx := StepIndex(Step(rec.CurrentStep))
	if idx <= 0 {
		return Step(rec.CurrentStep)
	}
	return StepOrder[idx-1]
}

// CanAdvance re-validates the current step's completion before a forward
// transition. When incomplete it returns false and the user-facing reason.
func CanAdvance(rec *models.VerificationRecord) (bool, string) {
	if rec == nil {
		return false, "Verification not started!"
	}

	current := Step(rec.CurrentStep)
	switch current {
	case StepProcessingStatus:
		if StatusOf(rec, StepProcessingStatus) != StatusCompleted {
			return false, "Your submission is still being reviewed!"
		}
	case StepCompletion:
		return false, "Verification is already complete!"
	default:
		if StatusOf(rec, current) != StatusCompleted {
			info := Registry[current]
			return false, info.Title + " is not complete yet!"
		}
	}

	if StepIndex(current) >= len(StepOrder)-1 {
		return false, "Verification is already complete!"
	}
	return true, ""
}

// NextStep returns the step after the current one. Callers must check
// CanAdvance first.
func NextStep(rec *models.VerificationRecord) Step {
	idx := StepIndex(Step(rec.CurrentStep))
	if idx < 0 || idx >= len(StepOrder)-1 {
		return Step(rec.CurrentStep)
	}
	return StepOrder[idx+1]
}

// ResumeStep computes where an interrupted session should land: the first
// step that is not completed. A completed step is never reopened for editing;
// a fully completed record resumes at the terminal step.
func ResumeStep(rec *models.VerificationRecord) Step {
	for _, step := range StepOrder {
		if StatusOf(rec, step) != StatusCompleted {
			return step
		}
	}
	return StepCompletion
}
