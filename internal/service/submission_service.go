package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

// SubmissionService provides submission use cases over the controller.
type SubmissionService struct {
	ctrl      *state.Controller
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(ctrl *state.Controller, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{ctrl: ctrl, validator: validate, logger: logger}
}

// List returns submissions most-recent-first, optionally scoped to one
// assignment.
func (s *SubmissionService) List(assignmentID string) []models.Submission {
	submissions := s.ctrl.Submissions()
	if assignmentID == "" {
		return submissions
	}
	filtered := submissions[:0]
	for _, sub := range submissions {
		if sub.AssignmentID == assignmentID {
			filtered = append(filtered, sub)
		}
	}
	return filtered
}

// Create turns in work for an assignment. The submitting student is
// recorded as an id+name pair.
func (s *SubmissionService) Create(req dto.CreateSubmissionRequest, claims *models.JWTClaims) (models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Submission{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	studentID := req.StudentID
	studentName := req.StudentName
	if claims != nil && studentID == "" {
		studentID = claims.UserID
		studentName = claims.Name
	}

	submission := s.ctrl.AddSubmission(models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    studentID,
		StudentName:  studentName,
		SubmittedAt:  req.SubmittedAt,
		Files:        req.Files,
		TextResponse: req.TextResponse,
		Status:       req.Status,
	})
	s.logger.Sugar().Infow("submission recorded", "submission_id", submission.ID, "assignment_id", submission.AssignmentID)
	return submission, nil
}
