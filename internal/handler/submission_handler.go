package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/service"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
	"github.com/noah-isme/mustang-stride-api/pkg/response"
)

// SubmissionHandler handles submission endpoints.
type SubmissionHandler struct {
	service *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// List godoc
// @Summary List submissions
// @Description Most-recent-first, optionally scoped to one assignment
// @Tags Submissions
// @Produce json
// @Param assignment_id query string false "Assignment filter"
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Query("assignment_id")))
}

// Create godoc
// @Summary Turn in work
// @Tags Submissions
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload"))
		return
	}

	submission, err := h.service.Create(req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}
