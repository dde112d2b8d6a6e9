package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	TagRepo         TagRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	StatisticsRepo  StatisticsReader
	UserRepo        UserRepositoryFacade
}
