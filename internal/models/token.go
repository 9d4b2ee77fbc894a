package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity claims embedded in access tokens. Tokens
// exist for role dispatch on API routes, not as a security boundary.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Role    UserRole `json:"role"`
	Section Section  `json:"section"`
	jwt.RegisteredClaims
}
