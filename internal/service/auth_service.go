package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/internal/dto"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	appErrors "github.com/noah-isme/mustang-stride-api/pkg/errors"
)

// AuthConfig defines configuration for session tokens.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService wraps the controller's login lifecycle and issues session
// tokens for role dispatch. The credential check itself is the
// controller's plaintext name+password match; tokens are convenience,
// not a security boundary.
type AuthService struct {
	ctrl      *state.Controller
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(ctrl *state.Controller, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{ctrl: ctrl, validator: validate, logger: logger, config: config}
}

// Login authenticates against the in-memory user collection.
func (s *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, ok := s.ctrl.Login(req.Name, req.Password)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid name or password")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Sugar().Infow("login", "user_id", user.ID, "role", user.Role)

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    time.Now().UTC(),
		User:        *user,
	}, nil
}

// Logout clears the current user slot; an explicit null is persisted.
func (s *AuthService) Logout() {
	s.ctrl.Logout()
}

// CurrentUser returns the logged-in user, if any.
func (s *AuthService) CurrentUser() (*models.User, error) {
	user := s.ctrl.CurrentUser()
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "nobody is logged in")
	}
	return user, nil
}

// LoginError reports the transient failure indicator.
func (s *AuthService) LoginError() bool {
	return s.ctrl.LoginError()
}

// ClearLoginError drops the indicator, mirroring a form edit.
func (s *AuthService) ClearLoginError() {
	s.ctrl.ClearLoginError()
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:  user.ID,
		Name:    user.Name,
		Role:    user.Role,
		Section: user.Section,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
