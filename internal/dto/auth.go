package dto

import (
	"time"

	"github.com/noah-isme/mustang-stride-api/internal/models"
)

// LoginRequest holds the login form inputs: the full name (trimmed and
// case-folded before matching) and the password (compared verbatim).
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token and user info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	User        models.User `json:"user"`
}
