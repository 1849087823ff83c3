package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"eventease/internal/auth"
	"eventease/internal/domain"
	"eventease/internal/models"
)

// AuthService handles account registration and login, issuing session
// tokens for the rest of the API.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Session is the result of a successful registration or login.
type Session struct {
	Token string         `json:"token"`
	User  models.UserRef `json:"user"`
}

// Register creates an account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" {
		return nil, domain.New(domain.CodeValidation, "email and username are required")
	}

	user, err := s.authenticator.Register(ctx, email, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, domain.New(domain.CodeValidation, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			return nil, domain.New(domain.CodeConflict, err.Error())
		}
		slog.Error("Registration failed", "email", email, "error", err)
		return nil, domain.Wrap(domain.CodeStore, "failed to register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to issue token", err)
	}

	slog.Info("User registered", "user_id", user.ID)
	return &Session{Token: token, User: user.Ref()}, nil
}

// Login verifies credentials and returns a fresh session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, domain.New(domain.CodeNotAuthorized, auth.ErrInvalidCredentials.Error())
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStore, "failed to issue token", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return &Session{Token: token, User: user.Ref()}, nil
}
