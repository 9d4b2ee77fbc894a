package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/pkg/config"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

func newTestExportService(t *testing.T) *ExportService {
	t.Helper()
	ctrl := newTestController(t)
	a := ctrl.AddAssignment(models.Assignment{Title: "Lab 1", Section: models.SectionEinsteinG11})
	ctrl.AddSubmission(models.Submission{AssignmentID: a.ID, StudentID: "u1"})

	summary := NewSummaryService(ctrl, nil, config.SummaryConfig{}, nil)
	return NewExportService(summary, nil)
}

func TestUsageReportCSV(t *testing.T) {
	svc := newTestExportService(t)

	payload, contentType, err := svc.UsageReport("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Section,Assignments,Submissions", lines[0])
	assert.Contains(t, string(payload), "Grade 11 - Einstein,1,1")
	assert.Contains(t, string(payload), "Total,1,1")
}

func TestUsageReportPDF(t *testing.T) {
	svc := newTestExportService(t)

	payload, contentType, err := svc.UsageReport("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestUsageReportUnknownFormat(t *testing.T) {
	svc := newTestExportService(t)

	_, _, err := svc.UsageReport("xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
