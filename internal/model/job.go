package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job status constants
var (
	// JobStatusActive means the posting is open and publicly visible
	JobStatusActive = "Active"
	// JobStatusInactive means the posting is hidden from non-owners
	JobStatusInactive = "Inactive"
	// JobStatusFilled means the position has been filled
	JobStatusFilled = "Filled"
)

// ValidJobStatus reports whether s is one of the job status constants.
func ValidJobStatus(s string) bool {
	return s == JobStatusActive || s == JobStatusInactive || s == JobStatusFilled
}

// EditableJobInfo is the part of a job posting its owner can edit.
type EditableJobInfo struct {
	Title            string         `gorm:"type:text" json:"title"`
	Company          string         `gorm:"type:text" json:"company"`
	Location         string         `gorm:"type:text" json:"location"`
	JobType          string         `gorm:"type:text" json:"job_type"`
	Salary           float64        `json:"salary,omitempty"`
	SalaryType       string         `gorm:"type:text;default:'Monthly'" json:"salary_type,omitempty"`
	Description      string         `gorm:"type:text" json:"description"`
	Requirements     pq.StringArray `gorm:"type:text[]" json:"requirements,omitempty"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities,omitempty"`
	Skills           pq.StringArray `gorm:"type:text[]" json:"skills,omitempty"`
	ExperienceLevel  string         `gorm:"type:text" json:"experience_level,omitempty"`
	EducationLevel   string         `gorm:"type:text" json:"education_level,omitempty"`
	ExpiresAt        *time.Time     `gorm:"type:timestamp" json:"expires_at,omitempty"`
}

// Job is the gorm model for a job posting. PostedByID is write-once: the
// owner of a posting never changes after creation.
type Job struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	PostedByID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"posted_by_id"`
	PostedBy   User      `gorm:"foreignKey:PostedByID;references:ID" json:"-"`

	EditableJobInfo

	Status    string    `gorm:"type:text;default:'Active';constraint:check(status in ('Active', 'Inactive', 'Filled'))" json:"status"`
	Views     int64     `gorm:"default:0" json:"views"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// defaultJobLifetime is how long a posting stays up when no expiry is given.
const defaultJobLifetime = 30 * 24 * time.Hour

// Expired reports whether the posting is past its expiry time.
func (j *Job) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && j.ExpiresAt.Before(now)
}

// ApplyDefaults fills the expiry for postings created without one.
func (j *Job) ApplyDefaults(now time.Time) {
	if j.ExpiresAt == nil {
		exp := now.Add(defaultJobLifetime)
		j.ExpiresAt = &exp
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}
}
