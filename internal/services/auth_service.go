package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preppal-app/coaching-service/internal/models"
	"github.com/preppal-app/coaching-service/internal/repositories"
	"github.com/preppal-app/coaching-service/internal/validator"
)

type authService struct {
	store     repositories.Store
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(store repositories.Store, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		store:     store,
		logger:    logger,
		validator: validator,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	user, err := s.store.Users().Create(ctx, strings.TrimSpace(req.Name), email, req.Secret)
	if err != nil {
		if repositories.IsDuplicateError(err) {
			s.logger.Info("registration rejected, email taken", "email", email)
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().Authenticate(ctx, strings.TrimSpace(req.Email), req.Secret)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}
