package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mustang-stride-api/internal/service"
	"github.com/noah-isme/mustang-stride-api/pkg/response"
)

// ReportHandler serves the exported usage report.
type ReportHandler struct {
	service *service.ExportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *service.ExportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// UsageCSV godoc
// @Summary Usage report (CSV)
// @Tags Reports
// @Produce text/csv
// @Success 200
// @Router /reports/usage.csv [get]
func (h *ReportHandler) UsageCSV(c *gin.Context) {
	h.serve(c, "csv", "usage-report.csv")
}

// UsagePDF godoc
// @Summary Usage report (PDF)
// @Tags Reports
// @Produce application/pdf
// @Success 200
// @Router /reports/usage.pdf [get]
func (h *ReportHandler) UsagePDF(c *gin.Context) {
	h.serve(c, "pdf", "usage-report.pdf")
}

func (h *ReportHandler) serve(c *gin.Context, format, filename string) {
	payload, contentType, err := h.service.UsageReport(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
