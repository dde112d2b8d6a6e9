package services

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
)

// AuthSvcFacade registers users and issues access tokens.
type AuthSvcFacade interface {
	// Register creates a user and seeds their default categories.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns a signed token with its expiry.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.User, string, time.Time, error)
}
