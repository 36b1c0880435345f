package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableJobInfo is the part of a job post the owning employer can edit
type EditableJobInfo struct {
	Title         string         `gorm:"type:text" json:"title"`
	Desc          string         `gorm:"type:text" json:"desc"`
	Req           string         `gorm:"type:text" json:"req"`
	MinExperience uint           `gorm:"default:0" json:"min_experience"`
	Location      string         `gorm:"type:text" json:"location"`
	Type          string         `gorm:"type:text" json:"type"`
	Salary        string         `gorm:"type:text" json:"salary"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	Active        *bool          `gorm:"default:true" json:"active"`
}

// Job is the gorm model for a job posting. EmployerID is write-once: the
// owner is fixed at creation and is the authorization anchor for every
// application-management operation under this job.
type Job struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"employer_id"`
	Company    Company   `gorm:"foreignKey:EmployerID;references:UserID" json:"company"`
	EditableJobInfo
	PostTime     time.Time     `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"post_time"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

// IsActive reports whether the posting is visible to job seekers
func (j *Job) IsActive() bool {
	return j.Active == nil || *j.Active
}

// JobResponse is the job post response enriched with the caller's apply state
type JobResponse struct {
	ID         uint      `json:"id"`
	EmployerID uuid.UUID `json:"employer_id"`
	Company    Company   `json:"company"`
	PostTime   time.Time `json:"post_time"`
	UserApply  bool      `json:"user_apply"`
	EditableJobInfo
}

// ToJobResponse converts a Job to JobResponse for the given requesting user
func (j *Job) ToJobResponse(user User) (JobResponse, error) {

	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}

	if err := json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	userApply := false
	if user.Role == RoleJobSeeker {
		for _, application := range j.Applications {
			if application.SeekerID == user.ID {
				userApply = true
				break
			}
		}
	}
	resp.UserApply = userApply

	return resp, nil
}
