package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role constants. The set is closed: every authorization rule switches over
// exactly these three values.
var (
	// RoleAdmin can perform every action on every resource
	RoleAdmin = "admin"
	// RoleEmployer can post jobs and manage applications on them
	RoleEmployer = "employer"
	// RoleJobseeker can apply to jobs and maintain a profile
	RoleJobseeker = "jobseeker"
)

// User is the gorm model for every account on the platform. Jobseeker and
// employer specific fields live on the same record, mirroring the single
// users resource the API exposes.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Email    string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text" json:"-"`

	// Role is assigned at registration; only an admin may change it afterwards.
	Role string `gorm:"type:text;default:'jobseeker';constraint:check(role in ('admin', 'employer', 'jobseeker'))" json:"role"`

	// Jobseeker fields
	Resume     string         `gorm:"type:text" json:"resume,omitempty"`
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills,omitempty"`
	Experience []Experience   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"experience,omitempty"`
	Education  []Education    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"education,omitempty"`

	// Employer fields
	CompanyName        string `gorm:"type:text" json:"company_name,omitempty"`
	CompanyDescription string `gorm:"type:text" json:"company_description,omitempty"`
	CompanyWebsite     string `gorm:"type:text" json:"company_website,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// Experience is a single employment entry on a jobseeker profile.
// Either date may be absent; an entry missing a date counts as zero
// duration when the profile is scored against a job.
type Experience struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Company     string     `gorm:"type:text" json:"company"`
	Position    string     `gorm:"type:text" json:"position"`
	StartDate   *time.Time `gorm:"type:timestamp" json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"type:timestamp" json:"end_date,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
}

// Education is a single credential entry on a jobseeker profile.
type Education struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Institution string    `gorm:"type:text" json:"institution"`
	Degree      string    `gorm:"type:text" json:"degree"`
	Field       string    `gorm:"type:text" json:"field,omitempty"`
	StartYear   int       `json:"start_year,omitempty"`
	EndYear     int       `json:"end_year,omitempty"`
}

// RestrictedUser is the reduced projection of a profile returned to actors
// that are neither the user themself nor an admin.
type RestrictedUser struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CompanyName    string    `json:"company_name,omitempty"`
	CompanyWebsite string    `json:"company_website,omitempty"`
}

// Restricted returns the limited view of the user for non-privileged readers.
func (u *User) Restricted() RestrictedUser {
	return RestrictedUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		CompanyName:    u.CompanyName,
		CompanyWebsite: u.CompanyWebsite,
	}
}
