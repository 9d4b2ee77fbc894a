package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

// AssignmentService provides assignment use cases over the controller.
type AssignmentService struct {
	ctrl      *state.Controller
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(ctrl *state.Controller, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{ctrl: ctrl, validator: validate, logger: logger}
}

// List returns assignments most-recent-first, optionally scoped to a
// section.
func (s *AssignmentService) List(section models.Section) []models.Assignment {
	assignments := s.ctrl.Assignments()
	if section == "" {
		return assignments
	}
	filtered := assignments[:0]
	for _, a := range assignments {
		if a.Section == section {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Create hands out a new assignment. The creating teacher is recorded as
// an id+name pair, not dereferenced.
func (s *AssignmentService) Create(req dto.CreateAssignmentRequest, claims *models.JWTClaims) (models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Assignment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	teacherID := req.TeacherID
	teacherName := req.TeacherName
	if claims != nil && teacherID == "" {
		teacherID = claims.UserID
		teacherName = claims.Name
	}

	assignment := s.ctrl.AddAssignment(models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Section:     req.Section,
		TeacherID:   teacherID,
		TeacherName: teacherName,
		Subject:     req.Subject,
		Attachments: req.Attachments,
	})
	s.logger.Sugar().Infow("assignment created", "assignment_id", assignment.ID, "section", assignment.Section)
	return assignment, nil
}

// Update shallow-merges fields into an existing assignment.
func (s *AssignmentService) Update(id string, req dto.UpdateAssignmentRequest) (models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Assignment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment, ok := s.ctrl.UpdateAssignment(id, func(a *models.Assignment) {
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.DueDate != nil {
			a.DueDate = *req.DueDate
		}
		if req.Section != nil {
			a.Section = *req.Section
		}
		if req.Subject != nil {
			a.Subject = *req.Subject
		}
		if req.Attachments != nil {
			a.Attachments = *req.Attachments
		}
	})
	if !ok {
		return models.Assignment{}, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return assignment, nil
}

// Delete removes an assignment and cascades to its submissions.
func (s *AssignmentService) Delete(id string) error {
	if !s.ctrl.DeleteAssignment(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	s.logger.Sugar().Infow("assignment deleted", "assignment_id", id)
	return nil
}
