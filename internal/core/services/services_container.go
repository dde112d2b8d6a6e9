package services

import (
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, options...)
	container.Category = NewCategoryService(repos.TxManager, repos.CategoryRepo, options...)
	container.Transaction = NewTransactionService(
		repos.TxManager,
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.TagRepo,
		repos.CategoryRepo,
		options...,
	)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.StatisticsRepo, options...)
	container.Statistics = NewStatisticsService(repos.StatisticsRepo, options...)

	// Registration seeds categories, so auth depends on the category service.
	container.Auth = NewAuthService(cfg, repos.UserRepo, container.Category, options...)

	return container
}
