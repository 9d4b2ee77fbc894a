package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/service"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
	"github.com/noah-isme/mustang-stride-api/pkg/response"
)

// AuthHandler handles login lifecycle endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Log in
// @Description Match full name (case-insensitive) and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A malformed payload is a form edit from the state machine's
		// point of view: drop any raised failure indicator.
		h.service.ClearLoginError()
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	resp, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout()
	response.NoContent(c)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// LoginError godoc
// @Summary Login failure indicator
// @Description Reports the transient login error flag, which decays on its own
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/login-error [get]
func (h *AuthHandler) LoginError(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"error": h.service.LoginError()})
}

// ClearLoginError godoc
// @Summary Clear the login failure indicator
// @Tags Auth
// @Success 204
// @Router /auth/login-error [delete]
func (h *AuthHandler) ClearLoginError(c *gin.Context) {
	h.service.ClearLoginError()
	response.NoContent(c)
}
