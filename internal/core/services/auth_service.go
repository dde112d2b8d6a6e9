package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/SscSPs/personal_ledger/internal/platform/config"
	"github.com/SscSPs/personal_ledger/internal/utils"
	"github.com/google/uuid"
)

// authService registers users and issues access tokens.
// It requires the JWT settings from configuration and the category service
// so that new users start with the default category tree.
type authService struct {
	BaseService
	cfg             *config.Config
	userRepo        portsrepo.UserRepositoryFacade
	categoryService portssvc.CategoryWriterSvc
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, categoryService portssvc.CategoryWriterSvc, options ...ServiceOption) portssvc.AuthSvcFacade {
	svc := &authService{cfg: cfg, userRepo: userRepo, categoryService: categoryService}
	svc.apply(options)
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates the user and seeds their default categories. A seeding
// failure is logged and does not undo the registration; the user can retry
// it through the category endpoints.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up username")
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		IsActive:     true,
		AuditFields:  domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user")
		}
		return nil, err
	}

	if err := s.categoryService.InitDefaultCategories(ctx, user.UserID); err != nil {
		s.LogError(ctx, err, "Failed to seed default categories for new user", slog.String("user_id", user.UserID))
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Login checks the credentials and returns a signed access token. Unknown users
// and wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, time.Time, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", time.Time{}, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, "", time.Time{}, err
	}
	if !user.IsActive || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", time.Time{}, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, err
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return user, token, expiresAt, nil
}
