package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// ServiceOption is a functional option shared by all services.
type ServiceOption func(*BaseService)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// rollback ends tx if it is still open. It is meant to be deferred right after
// Begin; after a successful Commit it does nothing.
func (s *BaseService) rollback(ctx context.Context, txManager portsrepo.TransactionManager, tx pgx.Tx) {
	if err := txManager.Rollback(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to roll back transaction")
	}
}
