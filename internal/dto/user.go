package dto

import "github.com/noah-isme/mustang-stride-api/internal/models"

// CreateUserRequest describes the payload for adding a user. Omitted
// fields default to their zero values; the role defaults to STUDENT and
// the section to the none sentinel.
type CreateUserRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Name     string          `json:"name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT"`
	Section  models.Section  `json:"section"`
	Subject  string          `json:"subject"`
}

// UpdateUserRequest carries a shallow merge of user fields. Nil pointers
// leave the existing value untouched.
type UpdateUserRequest struct {
	Username *string          `json:"username"`
	Password *string          `json:"password"`
	Name     *string          `json:"name"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT"`
	Section  *models.Section  `json:"section"`
	Subject  *string          `json:"subject"`
}
