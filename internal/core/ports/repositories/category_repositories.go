package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryForUser returns the category or apperrors.ErrNotFound.
	FindCategoryForUser(ctx context.Context, userID string, categoryID string) (*domain.Category, error)

	// ListCategories returns flat categories ordered by sort_order then name.
	// A nil categoryType returns both kinds.
	ListCategories(ctx context.Context, userID string, categoryType *domain.CategoryType, activeOnly bool) ([]domain.Category, error)

	// CountCategories returns how many categories the user owns.
	CountCategories(ctx context.Context, userID string) (int, error)
}

// CategoryWriter defines write operations for category data
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// SaveCategoriesInTx inserts categories in order; parents must precede their children.
	SaveCategoriesInTx(ctx context.Context, tx pgx.Tx, categories []domain.Category) error

	// UpdateCategory updates descriptive fields of a category.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory hard deletes a category. Children cascade in the store.
	DeleteCategory(ctx context.Context, userID string, categoryID string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
