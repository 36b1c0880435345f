package auth

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/model"
	"github.com/shadowkingaftab/connect-hire/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if SECRET_KEY == "" {
		SECRET_KEY = "test-secret-key"
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

func TestRegisterSeekerCreatesProfileAndToken(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "new_seeker_reg",
		"password": "LongEnough1!",
		"role":     model.RoleJobSeeker,
		"email":    "new_seeker@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp["access_token"])

	var user model.User
	require.NoError(t, testDB.Where("username = ?", "new_seeker_reg").First(&user).Error)
	assert.Equal(t, model.RoleJobSeeker, user.Role)

	var profile model.SeekerUser
	assert.NoError(t, testDB.First(&profile, "user_id = ?", user.ID).Error)
}

func TestRegisterEmployerCreatesCompanyShell(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "new_employer_reg",
		"password": "LongEnough1!",
		"role":     model.RoleEmployer,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)

	var user model.User
	require.NoError(t, testDB.Where("username = ?", "new_employer_reg").First(&user).Error)
	assert.Equal(t, model.RoleEmployer, user.Role)

	var company model.Company
	assert.NoError(t, testDB.First(&company, "user_id = ?", user.ID).Error)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "wannabe_admin",
		"password": "LongEnough1!",
		"role":     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": database.TestUserSeeker1.Username,
		"password": "LongEnough1!",
		"role":     model.RoleJobSeeker,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "short_pwd_user",
		"password": "short",
		"role":     model.RoleJobSeeker,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	token, err := GetAccessToken(t, testDB, database.TestUserSeeker1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := ValidatedToken(token)
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, database.TestUserSeeker1.ID.String(), claims.Subject)
	assert.Equal(t, JwtIssuer, claims.Issuer)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserSeeker1.Username,
		"password": "WrongPassword!",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUserRejected(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": "no_such_user",
		"password": "whatever123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
