package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/service"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	ctrl := newTestController(t)
	ctrl.AddUser(models.User{Name: "Ada Lovelace", Password: "correct horse", Role: models.RoleTeacher})
	svc := service.NewAuthService(ctrl, nil, nil, service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "mustang-stride",
	})
	return NewAuthHandler(svc)
}

func postJSON(target, body string) (*httptest.ResponseRecorder, *gin.Context) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler(t)

	rec, c := postJSON("/auth/login", `{"name":"ADA lovelace","password":"correct horse"}`)
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data["access_token"])

	user, ok := envelope.Data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", user["name"])
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler(t)

	rec, c := postJSON("/auth/login", `{"name":"ada lovelace","password":"wrong"}`)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/login-error", nil)
	h.LoginError(c)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["error"])
}

func TestAuthHandlerMalformedPayloadClearsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler(t)

	rec, c := postJSON("/auth/login", `{"name":"ada lovelace","password":"wrong"}`)
	h.Login(c)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, c = postJSON("/auth/login", `{broken`)
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/login-error", nil)
	h.LoginError(c)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["error"])
}

func TestAuthHandlerMeAndLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, c = postJSON("/auth/login", `{"name":"ada lovelace","password":"correct horse"}`)
	h.Login(c)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	h.Logout(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
