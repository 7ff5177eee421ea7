// Package lifecycle guards application creation and status changes.
package lifecycle

import (
	"errors"
	"fmt"

	"jobkhoj-backend/internal/model"
)

// ErrDuplicateApplication is returned when an applicant already has an
// application for the same job. It is a distinct, user-visible condition,
// not an authorization denial.
var ErrDuplicateApplication = errors.New("an application for this job already exists")

// ErrNotJobseeker is returned when a non-jobseeker account tries to apply.
var ErrNotJobseeker = errors.New("only jobseekers can submit applications")

// ValidStatus reports whether s is a member of the application status enum.
func ValidStatus(s string) bool {
	switch s {
	case model.ApplicationStatusApplied,
		model.ApplicationStatusReviewed,
		model.ApplicationStatusInterviewed,
		model.ApplicationStatusRejected,
		model.ApplicationStatusAccepted:
		return true
	}
	return false
}

// Terminal reports whether s is an end state of the review flow.
func Terminal(s string) bool {
	return s == model.ApplicationStatusRejected || s == model.ApplicationStatusAccepted
}

// CanTransition reports whether an application may move from one status to
// another. Any valid status may follow any other, including leaving a
// terminal state: employers do revert decisions (Rejected back to Reviewed),
// so no transition graph is enforced beyond enum membership.
func CanTransition(from, to string) bool {
	return ValidStatus(from) && ValidStatus(to)
}

// AssertCreatable checks the preconditions for submitting an application:
// the applicant must hold the jobseeker role and must not already have an
// application for the job. existing is the prior application found by the
// caller, or nil. This check is advisory from the store's point of view;
// the unique index on (job_id, applicant_id) closes the check-then-create
// race between concurrent submissions.
func AssertCreatable(applicant model.User, existing *model.Application) error {
	if applicant.Role != model.RoleJobseeker {
		return fmt.Errorf("%w: role is %s", ErrNotJobseeker, applicant.Role)
	}
	if existing != nil {
		return ErrDuplicateApplication
	}
	return nil
}
