package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTagRepository struct {
	pool *pgxpool.Pool
}

func newPgxTagRepository(pool *pgxpool.Pool) portsrepo.TagRepositoryFacade {
	return &PgxTagRepository{pool: pool}
}

var _ portsrepo.TagRepositoryFacade = (*PgxTagRepository)(nil)

// FindOrCreateTagsInTx upserts each name on the (user_id, name) unique key.
// The no-op DO UPDATE makes RETURNING yield the existing row as well.
func (r *PgxTagRepository) FindOrCreateTagsInTx(ctx context.Context, tx pgx.Tx, userID string, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return []domain.Tag{}, nil
	}

	query := `
		INSERT INTO tags (tag_id, user_id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $4)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING tag_id, user_id, name, color, created_at, updated_at;
	`
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(query, uuid.NewString(), userID, name, now)
	}

	br := tx.SendBatch(ctx, batch)
	tags, scanErr := scanTagBatch(br, names)
	if err := finishBatch(br, scanErr, "tag"); err != nil {
		return nil, err
	}
	return tags, nil
}

// scanTagBatch reads one RETURNING row per queued name and stops at the first failure.
func scanTagBatch(br pgx.BatchResults, names []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		var t domain.Tag
		if err := br.QueryRow().Scan(&t.TagID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// ReplaceTransactionTagsInTx deletes then inserts, so the result never merges with old links.
func (r *PgxTagRepository) ReplaceTransactionTagsInTx(ctx context.Context, tx pgx.Tx, transactionID string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to clear tags of transaction %s: %w", transactionID, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(tagIDs))
	for i, tagID := range tagIDs {
		rows[i] = []interface{}{transactionID, tagID}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"transaction_tags"}, []string{"transaction_id", "tag_id"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to link tags to transaction %s: %w", transactionID, err)
	}
	return nil
}

func (r *PgxTagRepository) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	query := `
		SELECT tag_id, user_id, name, color, created_at, updated_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.TagID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}
