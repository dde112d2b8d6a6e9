package pgsql

import (
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &BaseRepository{Pool: dbPool},
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		TagRepo:         newPgxTagRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		BudgetRepo:      newPgxBudgetRepository(dbPool),
		StatisticsRepo:  newPgxStatisticsRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
