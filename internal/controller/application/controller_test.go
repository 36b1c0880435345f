package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowkingaftab/connect-hire/internal/auth"
	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/ledger"
	"github.com/shadowkingaftab/connect-hire/internal/middleware"
	"github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/notify"
	"github.com/shadowkingaftab/connect-hire/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if auth.SECRET_KEY == "" {
		auth.SECRET_KEY = "test-secret-key"
	}

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("Unable to start test database: %s", err)
	}
	testDB = db

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("Unable to teardown test database: %s", err)
		}
	}
	os.Exit(code)
}

// fakeNotifier mirrors the dispatcher's fail-fast validation and records
// every send that made it past it
type fakeNotifier struct {
	statusCalls    int
	shortlistCalls int

	lastStatus     model.ApplicationStatus
	lastApplicants []notify.ShortlistedApplicant
	lastBossEmail  string

	sendErr error
}

func (f *fakeNotifier) SendStatusEmail(_ context.Context, app model.Application, _ model.Job, _ model.Company,
	status model.ApplicationStatus, _ string) (notify.SendReceipt, error) {
	if app.ApplicantEmail == "" {
		return notify.SendReceipt{}, fmt.Errorf("applicant email missing: %w", ledger.ErrValidation)
	}
	if f.sendErr != nil {
		return notify.SendReceipt{}, f.sendErr
	}
	f.statusCalls++
	f.lastStatus = status
	return notify.SendReceipt{MessageID: "fake-1"}, nil
}

func (f *fakeNotifier) SendShortlistEmail(_ context.Context, bossEmail string, _ model.Job, _ model.Company,
	_ string, applicants []notify.ShortlistedApplicant) (notify.SendReceipt, error) {
	if bossEmail == "" {
		return notify.SendReceipt{}, fmt.Errorf("recipient email missing: %w", ledger.ErrValidation)
	}
	if len(applicants) == 0 {
		return notify.SendReceipt{}, fmt.Errorf("empty applicant list: %w", ledger.ErrValidation)
	}
	if f.sendErr != nil {
		return notify.SendReceipt{}, f.sendErr
	}
	f.shortlistCalls++
	f.lastBossEmail = bossEmail
	f.lastApplicants = applicants
	return notify.SendReceipt{MessageID: "fake-2"}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestRouter(notifier Notifier) *gin.Engine {
	svc := ledger.NewService(testDB, quietLogger())
	ctrl := NewApplicationController(testDB, svc, notifier, nil)

	r := gin.New()
	v1 := r.Group("/api/v1")
	needAuth := v1.Group("", middleware.RequireAuth(testDB))

	needAuth.POST("/applications", middleware.CheckRole(model.RoleJobSeeker), ctrl.ApplyHandler)
	needAuth.GET("/applications/:id", ctrl.GetApplication)
	needAuth.PATCH("/applications/:id/status", middleware.CheckRole(model.RoleEmployer), ctrl.UpdateStatus)
	needAuth.POST("/applications/:id/respond", middleware.CheckRole(model.RoleEmployer), ctrl.Respond)
	needAuth.GET("/jobs/:id/applications", middleware.CheckRole(model.RoleEmployer), ctrl.ListForJob)
	needAuth.POST("/jobs/:id/shortlist/send", middleware.CheckRole(model.RoleEmployer), ctrl.SendShortlist)

	return r
}

var jobCounter int

func mustCreateJob(t *testing.T, employerID uuid.UUID, active bool) model.Job {
	t.Helper()
	jobCounter++
	job := model.Job{
		EmployerID: employerID,
		EditableJobInfo: model.EditableJobInfo{
			Title:  fmt.Sprintf("Handler Test Position %d", jobCounter),
			Desc:   "Handler test job row",
			Type:   "Full-time",
			Active: &active,
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	return job
}

func mustApply(t *testing.T, seeker model.User, jobID uint, email string, experience uint) model.Application {
	t.Helper()
	app := model.Application{
		JobID:          jobID,
		SeekerID:       seeker.ID,
		Status:         model.StatusPending,
		ApplicantName:  seeker.Username,
		ApplicantEmail: email,
		Experience:     experience,
	}
	require.NoError(t, testDB.Create(&app).Error)
	return app
}

func mustToken(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func applicationStatus(t *testing.T, id uint) model.ApplicationStatus {
	t.Helper()
	var app model.Application
	require.NoError(t, testDB.First(&app, id).Error)
	return app.Status
}

func TestApplyEndpointCreatesPendingApplication(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserSeeker1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_id":           job.ID,
		"applicant_name":   "Alice Nguyen",
		"applicant_email":  "alice@example.com",
		"age":              23,
		"experience_years": 2,
		"status":           "selected", // must be ignored
	}, token, r, "/api/v1/applications", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, string(model.StatusPending), resp["status"])
}

func TestApplyEndpointDuplicateIsConflict(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserSeeker1.Username)

	body := gin.H{
		"job_id":          job.ID,
		"applicant_name":  "Alice Nguyen",
		"applicant_email": "alice@example.com",
	}

	rec, _ := testutil.MakeJSONRequest(body, token, r, "/api/v1/applications", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = testutil.MakeJSONRequest(body, token, r, "/api/v1/applications", http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplyEndpointEmployerRoleRejected(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"job_id":          job.ID,
		"applicant_name":  "Nope",
		"applicant_email": "nope@example.com",
	}, token, r, "/api/v1/applications", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListForJobFiltersViaQuery(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	bobApp := mustApply(t, database.TestUserSeeker2, job.ID, "bob@example.com", 5)
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("id = ?", bobApp.ID).Update("status", model.StatusShortlisted).Error)

	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/v1/jobs/%d/applications?min_experience=4&status=shortlisted", job.ID), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob@example.com")
	assert.NotContains(t, rec.Body.String(), "alice@example.com")
}

func TestListForJobRejectsUnknownStatusQuery(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/v1/jobs/%d/applications?status=approved", job.ID), http.MethodGet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListForJobOtherEmployerForbidden(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserEmployer2.Username)

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/v1/jobs/%d/applications", job.ID), http.MethodGet)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatusEndpointNeverSendsMail(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": "reviewed"}, token, r,
		fmt.Sprintf("/api/v1/applications/%d/status", app.ID), http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusReviewed, applicationStatus(t, app.ID))
	assert.Zero(t, notifier.statusCalls)
}

func TestRespondSendsThenPersists(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"status":  "shortlisted",
		"message": "Congratulations, we'd like to talk.",
	}, token, r, fmt.Sprintf("/api/v1/applications/%d/respond", app.ID), http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, notifier.statusCalls)
	assert.Equal(t, model.StatusShortlisted, notifier.lastStatus)
	assert.Equal(t, model.StatusShortlisted, applicationStatus(t, app.ID))
}

func TestRespondSendFailureLeavesStatusUntouched(t *testing.T) {
	notifier := &fakeNotifier{sendErr: fmt.Errorf("smtp send: connection refused: %w", ledger.ErrUpstream)}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": "rejected"}, token, r,
		fmt.Sprintf("/api/v1/applications/%d/respond", app.ID), http.MethodPost)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, model.StatusPending, applicationStatus(t, app.ID))
}

func TestRespondForbiddenEmployerNeverTriggersSend(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	token := mustToken(t, database.TestUserEmployer2.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": "rejected"}, token, r,
		fmt.Sprintf("/api/v1/applications/%d/respond", app.ID), http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, notifier.statusCalls)
	assert.Equal(t, model.StatusPending, applicationStatus(t, app.ID))
}

func TestRespondMissingApplicantEmailIsValidationError(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "", 2)
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": "rejected"}, token, r,
		fmt.Sprintf("/api/v1/applications/%d/respond", app.ID), http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.StatusPending, applicationStatus(t, app.ID))
}

func TestShortlistSendAggregatesShortlistedOnly(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)
	bobApp := mustApply(t, database.TestUserSeeker2, job.ID, "bob@example.com", 5)
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("id = ?", bobApp.ID).Update("status", model.StatusShortlisted).Error)

	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"boss_email": "boss@technova.test",
		"message":    "Please review before Friday",
	}, token, r, fmt.Sprintf("/api/v1/jobs/%d/shortlist/send", job.ID), http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, notifier.shortlistCalls)
	assert.Equal(t, "boss@technova.test", notifier.lastBossEmail)
	require.Len(t, notifier.lastApplicants, 1)
	assert.Equal(t, database.TestUserSeeker2.Username, notifier.lastApplicants[0].Name)
}

func TestShortlistSendEmptyShortlistIsValidationError(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2) // still pending
	token := mustToken(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"boss_email": "boss@technova.test"}, token, r,
		fmt.Sprintf("/api/v1/jobs/%d/shortlist/send", job.ID), http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, notifier.shortlistCalls)
}

func TestShortlistSendOtherEmployerForbidden(t *testing.T) {
	notifier := &fakeNotifier{}
	r := newTestRouter(notifier)
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	token := mustToken(t, database.TestUserEmployer2.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{"boss_email": "boss@technova.test"}, token, r,
		fmt.Sprintf("/api/v1/jobs/%d/shortlist/send", job.ID), http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, notifier.shortlistCalls)
}

func TestGetApplicationStrangerForbidden(t *testing.T) {
	r := newTestRouter(&fakeNotifier{})
	job := mustCreateJob(t, database.TestUserEmployer1.ID, true)
	app := mustApply(t, database.TestUserSeeker1, job.ID, "alice@example.com", 2)

	token := mustToken(t, database.TestUserSeeker2.Username)
	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/v1/applications/%d", app.ID), http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token = mustToken(t, database.TestUserSeeker1.Username)
	rec, _ = testutil.MakeJSONRequest(nil, token, r,
		fmt.Sprintf("/api/v1/applications/%d", app.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}
