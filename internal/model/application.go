package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the closed set of states an application moves through.
// There is deliberately no ordering between statuses: the employer may set any
// status at any time, including going back from rejected to shortlisted.
type ApplicationStatus string

const (
	// StatusPending is the initial status of every new application
	StatusPending ApplicationStatus = "pending"
	// StatusReviewed indicates the employer has looked at the application
	StatusReviewed ApplicationStatus = "reviewed"
	// StatusShortlisted marks the application for escalation
	StatusShortlisted ApplicationStatus = "shortlisted"
	// StatusInterviewed indicates an interview took place
	StatusInterviewed ApplicationStatus = "interviewed"
	// StatusSelected indicates the applicant got the job
	StatusSelected ApplicationStatus = "selected"
	// StatusRejected indicates the applicant was turned down
	StatusRejected ApplicationStatus = "rejected"
)

// AllStatuses lists every valid application status
var AllStatuses = []ApplicationStatus{
	StatusPending,
	StatusReviewed,
	StatusShortlisted,
	StatusInterviewed,
	StatusSelected,
	StatusRejected,
}

// IsValid reports whether s is one of the known statuses
func (s ApplicationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application represents one applicant-to-job submission. The composite
// unique index on (job_id, seeker_id) is what enforces apply-at-most-once;
// concurrent duplicate inserts lose at the constraint, not at a pre-check.
type Application struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AppliedAt time.Time         `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
	Status    ApplicationStatus `gorm:"type:text;default:'pending'" json:"status"`

	JobID uint `gorm:"not null;uniqueIndex:idx_job_seeker" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	SeekerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_seeker" json:"seeker_id"`
	Seeker   User      `gorm:"foreignKey:SeekerID;references:ID" json:"-"`

	// Applicant-supplied snapshot fields
	ApplicantName  string `gorm:"type:text" json:"applicant_name"`
	ApplicantEmail string `gorm:"type:text" json:"applicant_email"`
	Age            uint   `json:"age"`
	Experience     uint   `json:"experience_years"`

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
}
