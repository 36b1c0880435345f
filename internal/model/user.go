package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// RoleJobSeeker is the role of users that browse jobs and apply
	RoleJobSeeker = "job_seeker"
	// RoleEmployer is the role of users that post jobs and manage applicants
	RoleEmployer = "employer"
	// RoleAdmin is the role of the bootstrap administrator account
	RoleAdmin = "admin"
)

// ContactInfo holds optional contact channels shared by every user kind
type ContactInfo struct {
	Tel   *string `json:"tel"`
	Email *string `json:"email"`
}

// User is the gorm model for an authenticated account. Role is written exactly
// once at registration; no endpoint mutates it afterwards.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	ContactInfo
	GoogleID       string    `json:"-"`
	Password       string    `json:"-"`
	Role           string    `gorm:"type:text;not null;<-:create" json:"role"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// EditableSeekerInfo is the part of a seeker profile the owner may edit
type EditableSeekerInfo struct {
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Age        *uint          `json:"age"`
	Experience *uint          `json:"experience_years"`
	SoftSkill  pq.StringArray `gorm:"type:text[]" json:"soft_skill"`
}

// SeekerUser is the job seeker profile attached to a User
type SeekerUser struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	EditableSeekerInfo
	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
}
