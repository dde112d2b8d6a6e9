package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memState is everything the fake store keeps. It is cloned on Begin so a
// rollback can restore it.
type memState struct {
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	tags         map[string]domain.Tag
	txnTags      map[string][]string
	categories   map[string]domain.Category
	budgets      map[string]domain.Budget
	users        map[string]domain.User
}

func newMemState() memState {
	return memState{
		accounts:     map[string]domain.Account{},
		transactions: map[string]domain.Transaction{},
		tags:         map[string]domain.Tag{},
		txnTags:      map[string][]string{},
		categories:   map[string]domain.Category{},
		budgets:      map[string]domain.Budget{},
		users:        map[string]domain.User{},
	}
}

func (s memState) clone() memState {
	c := newMemState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.txnTags {
		c.txnTags[k] = append([]string(nil), v...)
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// memTx stands in for a pgx.Tx. Services only pass it through to the store.
type memTx struct {
	pgx.Tx
	snapshot memState
	done     bool
}

// memStore implements every repository port in memory. A unit of work holds
// txMu from Begin until Commit or Rollback, which serializes postings the way
// row locks do in the database.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	memState

	failOn    map[string]error
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{memState: newMemState(), failOn: map[string]error{}}
}

var (
	_ portsrepo.TransactionManager          = (*memStore)(nil)
	_ portsrepo.AccountRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memStore)(nil)
	_ portsrepo.TagRepositoryFacade         = (*memStore)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.BudgetRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.StatisticsReader            = (*memStore)(nil)
	_ portsrepo.UserRepositoryFacade        = (*memStore)(nil)
)

func (m *memStore) providers() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       m,
		AccountRepo:     m,
		TransactionRepo: m,
		TagRepo:         m,
		CategoryRepo:    m,
		BudgetRepo:      m,
		StatisticsRepo:  m,
		UserRepo:        m,
	}
}

func (m *memStore) fail(method string) error {
	return m.failOn[method]
}

// --- TransactionManager ---

func (m *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := m.fail("Begin"); err != nil {
		return nil, err
	}
	m.txMu.Lock()
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memTx{snapshot: m.memState.clone()}, nil
}

func (m *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	if err := m.fail("Commit"); err != nil {
		return err
	}
	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	t.done = true
	m.txMu.Unlock()
	return nil
}

func (m *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	if t.done {
		return nil
	}
	m.mu.Lock()
	m.memState = t.snapshot
	m.rollbacks++
	m.mu.Unlock()
	t.done = true
	m.txMu.Unlock()
	return nil
}

// --- accounts ---

func (m *memStore) putAccount(a domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.AccountID] = a
}

func (m *memStore) account(id string) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

func (m *memStore) FindAccountForUser(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return &a, nil
}

func (m *memStore) ListActiveAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Account{}
	for _, a := range m.accounts {
		if a.UserID == userID && a.IsActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) SumActiveBalances(ctx context.Context, userID string) (decimal.Decimal, error) {
	accounts, _ := m.ListActiveAccounts(ctx, userID)
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

func (m *memStore) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	if err := m.fail("SaveAccountInTx"); err != nil {
		return err
	}
	m.putAccount(account)
	return nil
}

func (m *memStore) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.accounts[account.AccountID]
	if !ok || current.UserID != account.UserID {
		return apperrors.ErrNotFound
	}
	account.Balance = current.Balance
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) ClearDefaultAccountsInTx(ctx context.Context, tx pgx.Tx, userID string, exceptAccountID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.accounts {
		if a.UserID == userID && id != exceptAccountID && a.IsDefault {
			a.IsDefault = false
			a.UpdatedAt = now
			m.accounts[id] = a
		}
	}
	return nil
}

func (m *memStore) DeactivateAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || a.UserID != userID {
		return apperrors.ErrNotFound
	}
	a.IsActive = false
	a.IsDefault = false
	a.UpdatedAt = now
	m.accounts[accountID] = a
	return nil
}

func (m *memStore) FindAccountsForUpdate(ctx context.Context, tx pgx.Tx, userID string, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Account{}
	for _, id := range accountIDs {
		if a, ok := m.accounts[id]; ok && a.UserID == userID {
			out[id] = a
		}
	}
	return out, nil
}

func (m *memStore) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, effect domain.BalanceEffect, now time.Time) error {
	if err := m.fail("ApplyBalanceDeltasInTx"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, delta := range effect {
		a := m.accounts[id]
		a.Balance = a.Balance.Add(delta)
		a.UpdatedAt = now
		m.accounts[id] = a
	}
	return nil
}

// --- transactions ---

func (m *memStore) withTags(t domain.Transaction) domain.Transaction {
	names := []string{}
	for _, id := range m.txnTags[t.TransactionID] {
		names = append(names, m.tags[id].Name)
	}
	sort.Strings(names)
	t.Tags = names
	return t
}

func (m *memStore) FindTransactionForUser(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[transactionID]
	if !ok || t.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	t = m.withTags(t)
	return &t, nil
}

func (m *memStore) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.AccountID != nil && domain.StringValue(t.FromAccountID) != *filter.AccountID && domain.StringValue(t.ToAccountID) != *filter.AccountID {
			continue
		}
		out = append(out, m.withTags(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionDate.After(out[j].TransactionDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil, nil
}

func (m *memStore) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, userID string, transactionID string) (*domain.Transaction, error) {
	return m.FindTransactionForUser(ctx, userID, transactionID)
}

func (m *memStore) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if err := m.fail("SaveTransactionInTx"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn.Tags = nil
	m.transactions[txn.TransactionID] = txn
	return nil
}

func (m *memStore) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.transactions[txn.TransactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	current.CategoryID = txn.CategoryID
	current.TransactionDate = txn.TransactionDate
	current.Notes = txn.Notes
	current.Location = txn.Location
	current.Merchant = txn.Merchant
	current.ReceiptNumber = txn.ReceiptNumber
	current.UpdatedAt = txn.UpdatedAt
	m.transactions[txn.TransactionID] = current
	return nil
}

func (m *memStore) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, userID string, transactionID string) error {
	if err := m.fail("DeleteTransactionInTx"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[transactionID]
	if !ok || t.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(m.transactions, transactionID)
	delete(m.txnTags, transactionID)
	return nil
}

// --- tags ---

func (m *memStore) FindOrCreateTagsInTx(ctx context.Context, tx pgx.Tx, userID string, names []string) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		var found *domain.Tag
		for _, t := range m.tags {
			if t.UserID == userID && t.Name == name {
				t := t
				found = &t
				break
			}
		}
		if found == nil {
			t := domain.Tag{TagID: uuid.NewString(), UserID: userID, Name: name}
			m.tags[t.TagID] = t
			found = &t
		}
		out = append(out, *found)
	}
	return out, nil
}

func (m *memStore) ReplaceTransactionTagsInTx(ctx context.Context, tx pgx.Tx, transactionID string, tagIDs []string) error {
	if err := m.fail("ReplaceTransactionTagsInTx"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txnTags[transactionID] = append([]string(nil), tagIDs...)
	return nil
}

func (m *memStore) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Tag{}
	for _, t := range m.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- categories ---

func (m *memStore) FindCategoryForUser(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListCategories(ctx context.Context, userID string, categoryType *domain.CategoryType, activeOnly bool) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.categories {
		if c.UserID != userID || (activeOnly && !c.IsActive) || (categoryType != nil && c.Type != *categoryType) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memStore) CountCategories(ctx context.Context, userID string) (int, error) {
	cats, _ := m.ListCategories(ctx, userID, nil, false)
	return len(cats), nil
}

func (m *memStore) SaveCategory(ctx context.Context, category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.CategoryID] = category
	return nil
}

func (m *memStore) SaveCategoriesInTx(ctx context.Context, tx pgx.Tx, categories []domain.Category) error {
	if err := m.fail("SaveCategoriesInTx"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range categories {
		m.categories[c.CategoryID] = c
	}
	return nil
}

func (m *memStore) UpdateCategory(ctx context.Context, category domain.Category) error {
	return m.SaveCategory(ctx, category)
}

// DeleteCategory mirrors the schema: children and budgets cascade, transactions lose the reference.
func (m *memStore) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doomed := map[string]bool{categoryID: true}
	for id, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == categoryID {
			doomed[id] = true
		}
	}
	for id := range doomed {
		delete(m.categories, id)
	}
	for id, t := range m.transactions {
		if t.CategoryID != nil && doomed[*t.CategoryID] {
			t.CategoryID = nil
			m.transactions[id] = t
		}
	}
	for id, b := range m.budgets {
		if doomed[b.CategoryID] {
			delete(m.budgets, id)
		}
	}
	return nil
}

// --- budgets ---

func (m *memStore) FindBudgetForUser(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (m *memStore) ListBudgets(ctx context.Context, userID string, period *domain.BudgetPeriod, activeOnly bool) ([]domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Budget{}
	for _, b := range m.budgets {
		if b.UserID != userID || (activeOnly && !b.IsActive) || (period != nil && b.Period != *period) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (m *memStore) ActiveBudgetExists(ctx context.Context, userID string, categoryID string, period domain.BudgetPeriod) (bool, error) {
	budgets, _ := m.ListBudgets(ctx, userID, &period, true)
	for _, b := range budgets {
		if b.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[budget.BudgetID] = budget
	return nil
}

func (m *memStore) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	return m.SaveBudget(ctx, budget)
}

func (m *memStore) DeactivateBudget(ctx context.Context, userID string, budgetID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[budgetID]
	if !ok || b.UserID != userID {
		return apperrors.ErrNotFound
	}
	b.IsActive = false
	b.UpdatedAt = now
	m.budgets[budgetID] = b
	return nil
}

// --- statistics ---

func (m *memStore) matching(userID string, txType domain.TransactionType, start, end time.Time) []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range m.transactions {
		if t.UserID == userID && t.Type == txType && !t.TransactionDate.Before(start) && !t.TransactionDate.After(end) {
			out = append(out, t)
		}
	}
	return out
}

func (m *memStore) SumByType(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.matching(userID, txType, start, end) {
		total = total.Add(t.Amount)
	}
	return total, nil
}

func (m *memStore) ExpenseTotalsByRootCategory(ctx context.Context, userID string, start, end time.Time) ([]domain.CategoryTotal, error) {
	sums := map[string]decimal.Decimal{}
	for _, t := range m.matching(userID, domain.TransactionTypeExpense, start, end) {
		if t.CategoryID == nil {
			continue
		}
		m.mu.Lock()
		c, ok := m.categories[*t.CategoryID]
		m.mu.Unlock()
		if !ok {
			continue
		}
		root := c.CategoryID
		if c.ParentID != nil {
			root = *c.ParentID
		}
		sums[root] = sums[root].Add(t.Amount)
	}
	out := []domain.CategoryTotal{}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, total := range sums {
		c := m.categories[id]
		out = append(out, domain.CategoryTotal{CategoryID: id, Name: c.Name, Icon: c.Icon, Color: c.Color, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

func (m *memStore) DailyTotals(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]domain.DailyTotal, error) {
	sums := map[time.Time]decimal.Decimal{}
	for _, t := range m.matching(userID, txType, start, end) {
		d := t.TransactionDate
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		sums[day] = sums[day].Add(t.Amount)
	}
	out := []domain.DailyTotal{}
	for day, total := range sums {
		out = append(out, domain.DailyTotal{Day: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memStore) SumCategoryExpenses(ctx context.Context, userID string, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.matching(userID, domain.TransactionTypeExpense, start, end) {
		if domain.StringValue(t.CategoryID) == categoryID {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// --- users ---

func (m *memStore) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) SaveUser(ctx context.Context, user domain.User) error {
	if err := m.fail("SaveUser"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.UserID] = user
	return nil
}
