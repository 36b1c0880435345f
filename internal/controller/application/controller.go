// Package application provides HTTP handlers for job application operations.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shadowkingaftab/connect-hire/internal/controller/file"
	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/notify"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

// Notifier is the slice of the mail dispatcher the handlers consume
type Notifier interface {
	SendStatusEmail(ctx context.Context, app model.Application, job model.Job, company model.Company,
		status model.ApplicationStatus, message string) (notify.SendReceipt, error)
	SendShortlistEmail(ctx context.Context, bossEmail string, job model.Job, company model.Company,
		message string, applicants []notify.ShortlistedApplicant) (notify.SendReceipt, error)
}

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB       *database.DBinstanceStruct
	Ledger   *ledger.Service
	Notifier Notifier
	Storage  file.StorageClient
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(db *database.DBinstanceStruct, svc *ledger.Service, notifier Notifier, storage file.StorageClient) *ApplicationController {
	return &ApplicationController{
		DB:       db,
		Ledger:   svc,
		Notifier: notifier,
		Storage:  storage,
	}
}

// respondError maps the ledger error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, utilities.ErrorResponse{Error: err.Error()})
}

type applyRequest struct {
	JobID uint `json:"job_id" binding:"required"`
	ledger.ApplicantFields
}

// ApplyHandler handles the creation of a new job application by a job seeker.
// The status of the created row is always pending; any status value in the
// request body is ignored.
// @Summary Create job application
// @Description Only job seekers can access this endpoint; one application per job
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body applyRequest true "Application information"
// @Success 201 {object} model.Application "Successfully applied to the job"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as job seeker"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or inactive"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.Ledger.Apply(user, req.JobID, req.ApplicantFields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetApplication returns one application, readable by its applicant or the job owner.
// @Summary Get one application by id
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 200 {object} model.Application "The application"
// @Failure 403 {object} utilities.ErrorResponse "Neither the applicant nor the job owner"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplication(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	app, err := ac.Ledger.Get(user, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ListForJob returns the applications under a job, owner only. The
// experience/status query filters run in memory over the full result set.
// @Summary List applications for a job
// @Description Only the job owner can access this endpoint
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param min_experience query int false "Lower bound on applicant experience years"
// @Param max_experience query int false "Upper bound on applicant experience years"
// @Param status query string false "Only applications with this status"
// @Success 200 {array} model.Application "Matching applications"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/applications [get]
func (ac *ApplicationController) ListForJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job id"})
		return
	}

	var filter ledger.Filter
	if raw := c.Query("min_experience"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid min_experience"})
			return
		}
		min := uint(v)
		filter.MinExperience = &min
	}
	if raw := c.Query("max_experience"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid max_experience"})
			return
		}
		max := uint(v)
		filter.MaxExperience = &max
	}
	if raw := c.Query("status"); raw != "" {
		status := model.ApplicationStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Unknown status '%s'", raw)})
			return
		}
		filter.Status = &status
	}

	apps, err := ac.Ledger.ListForJob(user, uint(jobID), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

type statusRequest struct {
	Status model.ApplicationStatus `json:"status" binding:"required"`
}

// UpdateStatus overwrites the status of an application. Owner only; any
// status can follow any other. This endpoint never sends email.
// @Summary Update the status of an application
// @Description Only the owner of the referenced job can access this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param status body statusRequest true "Target status"
// @Success 200 {object} model.Application "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.Ledger.SetStatus(user, uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

type respondRequest struct {
	Status  model.ApplicationStatus `json:"status" binding:"required"`
	Message string                  `json:"message"`
}

// Respond emails the applicant about the target status and then persists it.
// The send goes first: when it fails the status is left untouched and the
// employer may retry manually. The email and the ledger write stay two
// independent operations; there is no rollback of a sent mail.
// @Summary Email the applicant about a status and persist it on send success
// @Description Only the owner of the referenced job can access this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param body body respondRequest true "Target status plus optional message"
// @Success 200 {object} model.Application "Mail sent and status persisted"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status or missing applicant email"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 502 {object} utilities.ErrorResponse "Mail provider failure; status not applied"
// @Router /applications/{id}/respond [post]
func (ac *ApplicationController) Respond(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown status '%s'", req.Status),
		})
		return
	}

	// Authorization runs before the send so a forbidden caller can never
	// trigger mail. SetStatus re-checks the same predicate afterwards.
	app, err := ac.Ledger.Get(user, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if app.Job.EmployerID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only the job owner can respond to this application"})
		return
	}

	var company model.Company
	if err := ac.DB.First(&company, "user_id = ?", app.Job.EmployerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company: %s", err.Error()),
		})
		return
	}

	receipt, err := ac.Notifier.SendStatusEmail(c.Request.Context(), app, app.Job, company, req.Status, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := ac.Ledger.SetStatus(user, uint(id), req.Status)
	if err != nil {
		// Mail already left; surface the ledger failure as-is
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": updated,
		"receipt":     receipt,
	})
}

type shortlistRequest struct {
	BossEmail string `json:"boss_email" binding:"required,email"`
	Message   string `json:"message"`
}

// SendShortlist forwards a job's shortlisted applications, with 7-day signed
// resume links, to a single manager address. Fails fast on an empty shortlist
// or missing recipient; nothing is sent partially.
// @Summary Email the shortlisted applicants of a job to a manager
// @Description Only the job owner can access this endpoint; requires at least one shortlisted application
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param body body shortlistRequest true "Recipient plus optional message"
// @Success 200 {object} notify.SendReceipt "Shortlist sent"
// @Failure 400 {object} utilities.ErrorResponse "Missing recipient or empty shortlist"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 502 {object} utilities.ErrorResponse "Mail provider failure"
// @Router /jobs/{id}/shortlist/send [post]
func (ac *ApplicationController) SendShortlist(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job id"})
		return
	}

	var req shortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	shortlisted := model.StatusShortlisted
	apps, err := ac.Ledger.ListForJob(user, uint(jobID), ledger.Filter{Status: &shortlisted})
	if err != nil {
		respondError(c, err)
		return
	}

	var job model.Job
	if err := ac.DB.Preload("Company").First(&job, jobID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	applicants := make([]notify.ShortlistedApplicant, 0, len(apps))
	for _, app := range apps {
		entry := notify.ShortlistedApplicant{
			Name:       app.ApplicantName,
			Age:        app.Age,
			Experience: app.Experience,
		}
		if app.ResumeID != nil && ac.Storage != nil {
			var resume model.File
			if err := ac.DB.Select("id", "extension").First(&resume, *app.ResumeID).Error; err == nil {
				object := file.ObjectName(file.ResumeObjectPrefix, resume)
				if url, err := ac.Storage.SignedURL(object, notify.ResumeLinkValidity); err == nil {
					entry.ResumeURL = url
				}
			}
		}
		applicants = append(applicants, entry)
	}

	receipt, err := ac.Notifier.SendShortlistEmail(c.Request.Context(), req.BossEmail, job, job.Company, req.Message, applicants)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}
