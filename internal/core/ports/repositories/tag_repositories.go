package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TagRepositoryFacade resolves tags by name and maintains transaction associations.
type TagRepositoryFacade interface {
	// FindOrCreateTagsInTx returns a tag for every name, creating the missing ones for userID.
	FindOrCreateTagsInTx(ctx context.Context, tx pgx.Tx, userID string, names []string) ([]domain.Tag, error)

	// ReplaceTransactionTagsInTx deletes every association of transactionID and inserts tagIDs.
	ReplaceTransactionTagsInTx(ctx context.Context, tx pgx.Tx, transactionID string, tagIDs []string) error

	// ListTags returns the user's tags ordered by name.
	ListTags(ctx context.Context, userID string) ([]domain.Tag, error)
}
