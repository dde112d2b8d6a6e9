package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{txManager: txManager, accountRepo: accountRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount stores the account with its opening balance. When it is the
// new default, every other default of the user is cleared in the same unit of work.
func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		AccountType:   req.AccountType,
		AccountNumber: req.AccountNumber,
		Balance:       decimal.Zero,
		Currency:      strings.ToUpper(req.Currency),
		Icon:          req.Icon,
		Color:         req.Color,
		Notes:         req.Notes,
		IsDefault:     req.IsDefault,
		IsActive:      true,
		AuditFields:   domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if req.InitialBalance != nil {
		if !domain.HasWholeCents(*req.InitialBalance) {
			return nil, fmt.Errorf("%w: initial balance has more than %d decimal places", apperrors.ErrValidation, domain.MoneyPlaces)
		}
		account.Balance = *req.InitialBalance
	}
	if account.Currency == "" {
		account.Currency = domain.DefaultCurrency
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin account creation")
		return nil, err
	}
	defer s.rollback(ctx, s.txManager, tx)

	if account.IsDefault {
		if err := s.accountRepo.ClearDefaultAccountsInTx(ctx, tx, userID, account.AccountID, now); err != nil {
			s.LogError(ctx, err, "Failed to clear default accounts", slog.String("user_id", userID))
			return nil, err
		}
	}
	if err := s.accountRepo.SaveAccountInTx(ctx, tx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		return nil, err
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit account creation", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully in service", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountForUser(ctx, userID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, accountID)
	}
	s.LogDebug(ctx, "Account retrieved successfully from service", slog.String("account_id", accountID))
	return account, nil
}

// ListAccounts retrieves the active accounts of the user, default first.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed successfully from service", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, err := s.accountRepo.SumActiveBalances(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account balances", slog.String("user_id", userID))
		return decimal.Zero, err
	}
	return total, nil
}

// UpdateAccount changes descriptive fields and the default flag. The balance is never written here.
func (s *accountService) UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = name
	}
	if req.AccountType != nil {
		if !req.AccountType.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		account.AccountType = *req.AccountType
	}
	if req.AccountNumber != nil {
		account.AccountNumber = *req.AccountNumber
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	if req.IsDefault != nil {
		account.IsDefault = *req.IsDefault
	}
	account.UpdatedAt = s.Now()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin account update")
		return nil, err
	}
	defer s.rollback(ctx, s.txManager, tx)

	if account.IsDefault {
		if err := s.accountRepo.ClearDefaultAccountsInTx(ctx, tx, userID, accountID, account.UpdatedAt); err != nil {
			s.LogError(ctx, err, "Failed to clear default accounts", slog.String("user_id", userID))
			return nil, err
		}
	}
	if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to update account in repository", slog.String("account_id", accountID))
		return nil, err
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit account update", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully in service", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account as inactive. Its transactions are kept.
func (s *accountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	err := s.accountRepo.DeactivateAccount(ctx, userID, accountID, s.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to deactivate account in repository", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully in service", slog.String("account_id", accountID))
	return nil
}
