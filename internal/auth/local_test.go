package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"jobkhoj-backend/internal/database"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// Helper: validate access token in response and return claims.
func assertValidAccessToken(t *testing.T, resp map[string]interface{}) *jwt.RegisteredClaims {
	t.Helper()
	tokenStr, ok := resp["access_token"].(string)
	assert.True(t, ok, "access_token not a string")
	token, err := ValidatedToken(tokenStr)
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	assert.True(t, ok, "claims type mismatch")
	assert.NotEmpty(t, claims.Subject, "token subject empty")
	return claims
}

func TestRegisterJobseeker(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "New Seeker",
		"email":    "new.seeker@example.com",
		"password": "password123",
		"role":     "jobseeker",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())

	assert.Contains(t, resp, "access_token")

	claims := assertValidAccessToken(t, resp)

	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok, "user key missing in response")
	if idVal, ok := userObj["id"].(string); ok {
		assert.Equal(t, idVal, claims.Subject, "JWT subject should match user id")
	}
	assert.Equal(t, model.RoleJobseeker, userObj["role"])
}

func TestRegisterEmployer(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "New Employer",
		"email":    "new.employer@example.com",
		"password": "companyPass123",
		"role":     "employer",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code, "unexpected status, body: %s", rec.Body.String())

	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, model.RoleEmployer, userObj["role"])
}

func TestRegisterDefaultsToJobseeker(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "Roleless User",
		"email":    "roleless@example.com",
		"password": "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, model.RoleJobseeker, userObj["role"])
}

func TestRegisterPasswordTooShort(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "Short Password",
		"email":    "short.pwd@example.com",
		"password": "1234567", // 7 chars
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "Password should be longer or equal to 8 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "Copycat",
		"email":    database.TestJobseeker1.Email, // seeded email
		"password": "password123",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Email already registered", errMsg)
}

func TestRegisterAdminRoleRejected(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]string{
		"name":     "Wannabe Admin",
		"email":    "wannabe.admin@example.com",
		"password": "password123",
		"role":     "admin", // not allowed
	}
	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "only 'jobseeker' or 'employer'")
}

func TestLoginSuccess(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	payload := map[string]string{
		"email":    database.TestJobseeker1.Email,
		"password": database.TestSeedPassword,
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, resp, "access_token")

	claims := assertValidAccessToken(t, resp)
	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok)
	if idVal, ok := userObj["id"].(string); ok {
		assert.Equal(t, idVal, claims.Subject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	payload := map[string]string{
		"email":    database.TestJobseeker1.Email,
		"password": "WrongPass999!",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Email or password is incorrect", errMsg)
}

func TestLoginUserNotFound(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	payload := map[string]string{
		"email":    "nobody@example.com",
		"password": "SomePassword1!",
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Equal(t, "Email or password is incorrect", errMsg)
}

func TestLoginLeavesPasswordOut(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)
	payload := map[string]string{
		"email":    database.TestEmployer1.Email,
		"password": database.TestSeedPassword,
	}
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	userObj, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.NotContains(t, userObj, "password")
}
