package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/mustang-stride-api/internal/models"
)

func performWithClaims(role models.UserRole, hasClaims bool, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	_, r := gin.CreateTestContext(rec)

	r.Use(func(c *gin.Context) {
		if hasClaims {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1", Role: role})
		}
		c.Next()
	})
	r.GET("/guarded", mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	rec := performWithClaims(models.RoleAdmin, true, RequireRoles(models.RoleAdmin, models.RoleTeacher))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidsOtherRole(t *testing.T) {
	rec := performWithClaims(models.RoleStudent, true, RequireRoles(models.RoleAdmin, models.RoleTeacher))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	rec := performWithClaims(models.RoleAdmin, false, RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
