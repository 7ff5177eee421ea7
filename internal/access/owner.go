package access

import (
	"github.com/google/uuid"

	"jobkhoj-backend/internal/model"
)

// JobOwner returns the user id that owns a posting for authorization
// purposes: the employer who created it.
func JobOwner(job model.Job) uuid.UUID {
	return job.PostedByID
}

// OwnsJob reports whether userID is the employer who posted job.
func OwnsJob(job model.Job, userID uuid.UUID) bool {
	return job.PostedByID == userID
}

// IsApplicant reports whether userID is the jobseeker who submitted app.
// An application has two distinct ownership relations; this is the
// applicant side, consulted for reads but never for status changes.
func IsApplicant(app model.Application, userID uuid.UUID) bool {
	return app.ApplicantID == userID
}

// IsJobOwner reports whether userID owns the posting app was submitted to.
// This is the employer side of application ownership, consulted for reads
// and for status/note changes. job must be the posting app references.
func IsJobOwner(app model.Application, job model.Job, userID uuid.UUID) bool {
	if app.JobID != job.ID {
		return false
	}
	return OwnsJob(job, userID)
}
