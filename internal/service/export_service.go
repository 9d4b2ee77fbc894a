package service

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/models"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
	"github.com/noah-isme/mustang-stride-api/pkg/export"
)

// ExportService renders the platform usage report as CSV or PDF.
type ExportService struct {
	summary *SummaryService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(summary *SummaryService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		summary: summary,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// UsageReport renders the usage table in the requested format and
// returns the bytes alongside the content type.
func (s *ExportService) UsageReport(format string) ([]byte, string, error) {
	table := s.usageTable()

	switch format {
	case "csv":
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
}

func (s *ExportService) usageTable() export.Table {
	stats := s.summary.Usage()

	rows := [][]string{}
	for _, section := range models.Sections {
		usage := stats.BySection[string(section)]
		rows = append(rows, []string{
			string(section),
			strconv.Itoa(usage.Assignments),
			strconv.Itoa(usage.Submissions),
		})
	}
	rows = append(rows, []string{
		"Total",
		strconv.Itoa(stats.TotalAssignments),
		strconv.Itoa(stats.TotalSubmissions),
	})

	return export.Table{
		Title:   "Mustang Stride Usage Report",
		Headers: []string{"Section", "Assignments", "Submissions"},
		Rows:    rows,
	}
}
