package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	pool *pgxpool.Pool
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{pool: pool}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, type, parent_id, icon, color, is_system, is_active, sort_order, created_at, updated_at`

const insertCategory = `
	INSERT INTO categories (` + categoryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.UserID,
		&c.Name,
		&c.Type,
		&c.ParentID,
		&c.Icon,
		&c.Color,
		&c.IsSystem,
		&c.IsActive,
		&c.SortOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func categoryArgs(c domain.Category) []interface{} {
	return []interface{}{
		c.CategoryID, c.UserID, c.Name, c.Type, nullable(c.ParentID), c.Icon, c.Color,
		c.IsSystem, c.IsActive, c.SortOrder, c.CreatedAt, c.UpdatedAt,
	}
}

func (r *PgxCategoryRepository) FindCategoryForUser(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND user_id = $2;`
	c, err := scanCategory(r.pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string, categoryType *domain.CategoryType, activeOnly bool) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		  AND ($2::text IS NULL OR type = $2)
		  AND (NOT $3 OR is_active = TRUE)
		ORDER BY sort_order, name;
	`
	var typeArg *string
	if categoryType != nil {
		s := string(*categoryType)
		typeArg = &s
	}

	rows, err := r.pool.Query(ctx, query, userID, typeArg, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	cats := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return cats, nil
}

func (r *PgxCategoryRepository) CountCategories(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1;`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	if _, err := r.pool.Exec(ctx, insertCategory, categoryArgs(category)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %s already exists", apperrors.ErrDuplicate, category.CategoryID)
		}
		return fmt.Errorf("failed to save category %s: %w", category.CategoryID, err)
	}
	return nil
}

// SaveCategoriesInTx inserts in slice order so foreign keys to parents resolve.
func (r *PgxCategoryRepository) SaveCategoriesInTx(ctx context.Context, tx pgx.Tx, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(insertCategory, categoryArgs(c)...)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert category %q: %w", categories[i].Name, err)
		}
	}
	return finishBatch(br, batchErr, "category")
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, icon = $4, color = $5, sort_order = $6, is_active = $7, updated_at = $8
		WHERE category_id = $1 AND user_id = $2;
	`
	tag, err := r.pool.Exec(ctx, query,
		category.CategoryID,
		category.UserID,
		category.Name,
		category.Icon,
		category.Color,
		category.SortOrder,
		category.IsActive,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.CategoryID, err)
	}
	return requireRow(tag, "category", category.CategoryID)
}

// DeleteCategory removes the row. Children and budgets cascade and transactions
// keep their rows with category_id set to NULL.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1 AND user_id = $2;`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return requireRow(tag, "category", categoryID)
}
