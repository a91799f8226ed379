package repository

import (
	"context"
	"fmt"
	"strings"

	"streaming-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContentGenreRepository maintains the content_genres bridge table.
type ContentGenreRepository interface {
	// ReplaceForContent swaps the content's genre set for exactly genreIDs.
	ReplaceForContent(ctx context.Context, contentID uuid.UUID, genreIDs []uuid.UUID) error
}

// ContentCollectionRepository maintains the content_collections bridge table.
type ContentCollectionRepository interface {
	ReplaceForContent(ctx context.Context, contentID uuid.UUID, collectionIDs []uuid.UUID) error
}

type contentLinkRepository struct {
	db     database.PgxIface
	log    *zap.Logger
	table  string
	column string
}

func NewContentGenreRepository(db database.PgxIface, log *zap.Logger) ContentGenreRepository {
	return &contentLinkRepository{
		db:     db,
		log:    log.With(zap.String("repository", "content_genre")),
		table:  "content_genres",
		column: "genre_id",
	}
}

func NewContentCollectionRepository(db database.PgxIface, log *zap.Logger) ContentCollectionRepository {
	return &contentLinkRepository{
		db:     db,
		log:    log.With(zap.String("repository", "content_collection")),
		table:  "content_collections",
		column: "collection_id",
	}
}

// ReplaceForContent deletes the existing links and batch inserts the new ones in one transaction.
func (r *contentLinkRepository) ReplaceForContent(ctx context.Context, contentID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", r.table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE content_id = $1`, r.table), contentID); err != nil {
		r.log.Error("Failed to clear links",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return fmt.Errorf("clear %s: %w", r.table, err)
	}

	if len(ids) > 0 {
		// Build batch insert
		var query strings.Builder
		fmt.Fprintf(&query, `INSERT INTO %s (content_id, %s) VALUES `, r.table, r.column)
		args := []any{contentID}
		for i, id := range ids {
			if i > 0 {
				query.WriteString(", ")
			}
			fmt.Fprintf(&query, "($1, $%d)", i+2)
			args = append(args, id)
		}
		query.WriteString(" ON CONFLICT DO NOTHING")

		if _, err := tx.Exec(ctx, query.String(), args...); err != nil {
			r.log.Error("Failed to insert links",
				zap.Error(err),
				zap.String("content_id", contentID.String()),
				zap.Int("count", len(ids)),
			)
			return fmt.Errorf("insert %s: %w", r.table, classify(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace %s: %w", r.table, err)
	}

	return nil
}
