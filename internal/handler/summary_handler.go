package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mustang-stride-api/internal/middleware"
	"github.com/noah-isme/mustang-stride-api/internal/service"
	"github.com/noah-isme/mustang-stride-api/pkg/response"
)

// SummaryHandler exposes the AI usage summary.
type SummaryHandler struct {
	service *service.SummaryService
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: svc}
}

// Analyze godoc
// @Summary AI usage summary
// @Description Executive summary of section participation; degrades to a fixed fallback string
// @Tags Summary
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summary [get]
func (h *SummaryHandler) Analyze(c *gin.Context) {
	resp, cacheHit, err := h.service.Analyze(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, resp, middleware.ExtractMeta(c))
}
