// Package ledger implements the application ledger: one record per
// (job, applicant) pair whose status evolves under job-ownership
// authorization. Every operation takes the acting user explicitly so the
// access decision is a pure function of (actor, operation, row).
package ledger

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shadowkingaftab/connect-hire/internal/authz"
	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Service exposes the ledger operations over the shared DB instance
type Service struct {
	DB  *database.DBinstanceStruct
	Log *logrus.Logger
}

// NewService creates a ledger Service bound to db
func NewService(db *database.DBinstanceStruct, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{DB: db, Log: log}
}

// ApplicantFields is the applicant-supplied part of a new application
type ApplicantFields struct {
	Name       string `json:"applicant_name" binding:"required"`
	Email      string `json:"applicant_email" binding:"required,email"`
	Age        uint   `json:"age"`
	Experience uint   `json:"experience_years"`
	ResumeID   *int   `json:"resume_id"`
}

// Apply creates an application by actor against jobID. The status is forced
// to pending regardless of any caller-supplied value, and the (job, seeker)
// uniqueness is enforced by the storage constraint: a concurrent duplicate
// loses at insert time and maps to ErrConflict, never to a second row.
func (s *Service) Apply(actor model.User, jobID uint, fields ApplicantFields) (model.Application, error) {
	var app model.Application

	var job model.Job
	if err := s.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app, fmt.Errorf("job %d: %w", jobID, ErrNotFound)
		}
		return app, err
	}

	if !authz.CanAccess(actor, authz.OpApplicationCreate, job) {
		return app, fmt.Errorf("apply to job %d: %w", jobID, ErrForbidden)
	}

	// Inactive postings are invisible to seekers
	if !job.IsActive() {
		return app, fmt.Errorf("job %d: %w", jobID, ErrNotFound)
	}

	if fields.Email == "" {
		return app, fmt.Errorf("applicant email: %w", ErrValidation)
	}

	app = model.Application{
		JobID:          jobID,
		SeekerID:       actor.ID,
		Status:         model.StatusPending,
		ApplicantName:  fields.Name,
		ApplicantEmail: fields.Email,
		Age:            fields.Age,
		Experience:     fields.Experience,
		ResumeID:       fields.ResumeID,
	}

	if err := s.DB.Create(&app).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return model.Application{}, fmt.Errorf("already applied to job %d: %w", jobID, ErrConflict)
			case pgForeignKeyViolation:
				return model.Application{}, fmt.Errorf("invalid job or resume reference: %w", ErrNotFound)
			}
		}
		return model.Application{}, err
	}

	s.Log.WithFields(logrus.Fields{
		"application": app.ID,
		"job":         jobID,
		"seeker":      actor.ID,
	}).Info("application created")

	return app, nil
}

// Get returns one application, readable by its applicant or the job owner
func (s *Service) Get(actor model.User, applicationID uint) (model.Application, error) {
	var app model.Application
	if err := s.DB.Preload("Job").First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app, fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
		}
		return app, err
	}
	if !authz.CanAccess(actor, authz.OpApplicationRead, app) {
		return model.Application{}, fmt.Errorf("read application %d: %w", applicationID, ErrForbidden)
	}
	return app, nil
}

// ListForJob returns the applications under jobID, owner only, narrowed by
// the in-memory filter.
func (s *Service) ListForJob(actor model.User, jobID uint, filter Filter) ([]model.Application, error) {
	var job model.Job
	if err := s.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %d: %w", jobID, ErrNotFound)
		}
		return nil, err
	}

	if !authz.CanAccess(actor, authz.OpJobUpdate, job) {
		return nil, fmt.Errorf("list applications for job %d: %w", jobID, ErrForbidden)
	}

	var apps []model.Application
	if err := s.DB.Where("job_id = ?", jobID).Order("applied_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return filter.Apply(apps), nil
}

// SetStatus overwrites the status of an application. Only the owner of the
// referenced job may call it; the applicant never can. There is no legality
// graph between statuses: any state reaches any other state, and re-applying
// the current status is an observable no-op. SetStatus never sends email.
func (s *Service) SetStatus(actor model.User, applicationID uint, status model.ApplicationStatus) (model.Application, error) {
	var app model.Application

	if !status.IsValid() {
		return app, fmt.Errorf("status %q: %w", status, ErrValidation)
	}

	if err := s.DB.Preload("Job").First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app, fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
		}
		return app, err
	}

	if !authz.CanAccess(actor, authz.OpApplicationSetStatus, app) {
		return model.Application{}, fmt.Errorf("update application %d: %w", applicationID, ErrForbidden)
	}

	if app.Status == status {
		return app, nil
	}

	previous := app.Status
	app.Status = status
	if err := s.DB.Model(&model.Application{}).Where("id = ?", applicationID).
		Update("status", status).Error; err != nil {
		return model.Application{}, err
	}

	s.Log.WithFields(logrus.Fields{
		"application": applicationID,
		"from":        previous,
		"to":          status,
		"actor":       actor.ID,
	}).Info("application status updated")

	return app, nil
}

// RegisterRole assigns a role to a user exactly once. A user that already
// carries a role conflicts; nothing in the modeled operations changes an
// existing role.
func (s *Service) RegisterRole(userID string, role string) (string, error) {
	if role != model.RoleJobSeeker && role != model.RoleEmployer {
		return "", fmt.Errorf("role %q: %w", role, ErrValidation)
	}

	var user model.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return "", err
	}

	if user.Role != "" {
		return "", fmt.Errorf("user %s already has role %q: %w", userID, user.Role, ErrConflict)
	}

	// The role column is create-only at the ORM level; this is the single
	// sanctioned assignment path, so it writes the column directly.
	if err := s.DB.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, userID).Error; err != nil {
		return "", err
	}
	return role, nil
}
