package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

// UserService provides roster management over the state controller.
type UserService struct {
	ctrl      *state.Controller
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(ctrl *state.Controller, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{ctrl: ctrl, validator: validate, logger: logger}
}

// List returns all users, optionally filtered by role.
func (s *UserService) List(role models.UserRole) []models.User {
	users := s.ctrl.Users()
	if role == "" {
		return users
	}
	filtered := users[:0]
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// Create adds a user with defaults for omitted fields.
func (s *UserService) Create(req dto.CreateUserRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user := s.ctrl.AddUser(models.User{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Section:  req.Section,
		Subject:  req.Subject,
	})
	s.logger.Sugar().Infow("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Update shallow-merges the provided fields into an existing user.
func (s *UserService) Update(id string, req dto.UpdateUserRequest) (models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.User{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, ok := s.ctrl.UpdateUser(id, func(u *models.User) {
		if req.Username != nil {
			u.Username = *req.Username
		}
		if req.Password != nil {
			u.Password = *req.Password
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Section != nil {
			u.Section = *req.Section
		}
		if req.Subject != nil {
			u.Subject = *req.Subject
		}
	})
	if !ok {
		return models.User{}, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return user, nil
}

// Delete removes a user. Assignments and submissions referencing the
// user are intentionally kept as orphaned history.
func (s *UserService) Delete(id string) error {
	if !s.ctrl.DeleteUser(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	s.logger.Sugar().Infow("user deleted", "user_id", id)
	return nil
}
