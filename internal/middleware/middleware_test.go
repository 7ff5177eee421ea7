package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"jobkhoj-backend/internal/auth"
	"jobkhoj-backend/internal/database"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func protectedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuth(testDB), checkUserHandler)
	return r
}

func checkUserHandler(c *gin.Context) {
	u, exist := c.Get("user")
	if !exist {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func getCheckRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utilities.ExtractUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Hello, " + user.Role})
	}
}

func TestRequireAuth_Success(t *testing.T) {
	engine := protectedEngine()
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
}

func TestRequireAuth_NoHeader(t *testing.T) {
	engine := protectedEngine()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "invalid authorization header")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	engine := protectedEngine()
	token, _, err := auth.GenerateTokenWithDuration(database.TestJobseeker1.ID, -1*time.Minute, auth.JwtIssuer)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, "Access token expired", body["error"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	engine := protectedEngine()
	// Create a valid token then corrupt it (signature mismatch)
	validToken, _, err := auth.GenerateTokenWithDuration(database.TestJobseeker1.ID, time.Hour, auth.JwtIssuer)
	assert.NoError(t, err)
	invalid := validToken + "x"

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+invalid)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "Failed to validate token")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	engine := protectedEngine()
	randomID := uuid.New()
	token, _, err := auth.GenerateTokenWithDuration(randomID, time.Hour, auth.JwtIssuer)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Contains(t, body["error"], "User not exist")
}

func TestRequireAuth_InvalidIssuer(t *testing.T) {
	engine := protectedEngine()
	token, _, err := auth.GenerateTokenWithDuration(database.TestJobseeker1.ID, time.Hour, "invalid-issuer")
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Invalid token issuer")
}

func TestCheckRole_NoRequireAuthBefore(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", CheckRole(model.RoleJobseeker), getCheckRoleHandler())
	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "user information not provided")
}

func TestCheckRole_WrongRole(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(model.RoleEmployer), getCheckRoleHandler())
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "User doesn't have permission to access")
}

func TestCheckRole_Success(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(model.RoleJobseeker), getCheckRoleHandler())
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Hello, jobseeker")
}

func TestCheckRole_MultipleRoleCheck(t *testing.T) {
	engine := gin.New()
	engine.GET("/need-role", RequireAuth(testDB), CheckRole(model.RoleEmployer, model.RoleAdmin), getCheckRoleHandler())

	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+employerToken)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Hello, employer")

	adminToken, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ = http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ = http.NewRequest(http.MethodGet, "/need-role", nil)
	req.Header.Set("Authorization", "Bearer "+seekerToken)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func optionalEngine() *gin.Engine {
	r := gin.New()
	r.GET("/maybe", OptionalAuth(testDB), func(c *gin.Context) {
		if u, exist := c.Get("user"); exist {
			user := u.(model.User)
			c.JSON(http.StatusOK, gin.H{"anonymous": false, "email": user.Email})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})
	return r
}

func TestOptionalAuth_NoHeaderPassesAnonymously(t *testing.T) {
	engine := optionalEngine()
	req, _ := http.NewRequest(http.MethodGet, "/maybe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["anonymous"])
}

func TestOptionalAuth_ValidTokenAttachesUser(t *testing.T) {
	engine := optionalEngine()
	token, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["anonymous"])
	assert.Equal(t, database.TestJobseeker1.Email, body["email"])
}

func TestOptionalAuth_GarbageTokenPassesAnonymously(t *testing.T) {
	engine := optionalEngine()
	req, _ := http.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["anonymous"])
}

func TestSafeHeader_setsHardeningHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SafeHeader())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	// HSTS is reserved for release mode.
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
