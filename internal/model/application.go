package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status constants
var (
	// ApplicationStatusApplied indicates a freshly submitted application
	ApplicationStatusApplied = "Applied"
	// ApplicationStatusReviewed indicates the employer has looked at the application
	ApplicationStatusReviewed = "Reviewed"
	// ApplicationStatusInterviewed indicates the applicant has been interviewed
	ApplicationStatusInterviewed = "Interviewed"
	// ApplicationStatusRejected indicates the application has been rejected
	ApplicationStatusRejected = "Rejected"
	// ApplicationStatusAccepted indicates the applicant got the job
	ApplicationStatusAccepted = "Accepted"
)

// Application represents a job application record. The composite unique
// index on (job_id, applicant_id) guarantees at most one application per
// applicant per job even under concurrent submissions.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobID uint `gorm:"not null;index;uniqueIndex:idx_applications_job_applicant" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"job,omitempty"`

	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_job_applicant" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID;references:ID" json:"applicant,omitempty"`

	Resume      string `gorm:"type:text" json:"resume,omitempty"`
	CoverLetter string `gorm:"type:text" json:"cover_letter,omitempty"`

	Status string `gorm:"type:text;default:'Applied';constraint:check(status in ('Applied', 'Reviewed', 'Interviewed', 'Rejected', 'Accepted'))" json:"status"`

	// Score is the computed fit score in [0, 100]. It is set at creation and
	// may be recomputed from current job/profile state, never set by clients.
	Score int `gorm:"default:0;constraint:check(score >= 0 AND score <= 100)" json:"score"`

	Notes []ApplicationNote `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// ApplicationNote is a single reviewer note on an application. Notes are
// append-only; there is no update or delete path.
type ApplicationNote struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"-"`
	AuthorID      uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Content       string    `gorm:"type:text" json:"content"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}
