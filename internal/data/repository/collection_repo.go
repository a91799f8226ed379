package repository

import (
	"context"
	"fmt"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Collection, error)
	FindByName(ctx context.Context, name string) (*entity.Collection, error)
	FindAll(ctx context.Context) ([]*entity.Collection, error)
	FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Collection, error)
	Update(ctx context.Context, collection *entity.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type collectionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCollectionRepository(db database.PgxIface, log *zap.Logger) CollectionRepository {
	return &collectionRepository{
		db:  db,
		log: log.With(zap.String("repository", "collection")),
	}
}

func (r *collectionRepository) Create(ctx context.Context, collection *entity.Collection) error {
	query := `INSERT INTO collections (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, collection.ID, collection.Name, collection.CreatedAt, collection.UpdatedAt); err != nil {
		r.log.Error("Failed to create collection", zap.Error(err), zap.String("name", collection.Name))
		return fmt.Errorf("create collection %s: %w", collection.Name, classify(err))
	}

	return nil
}

func (r *collectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Collection, error) {
	query := `SELECT id, name, created_at, updated_at FROM collections WHERE id = $1`

	var collection entity.Collection
	err := r.db.QueryRow(ctx, query, id).Scan(&collection.ID, &collection.Name, &collection.CreatedAt, &collection.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find collection by ID", zap.Error(err), zap.String("collection_id", id.String()))
		return nil, fmt.Errorf("find collection %s: %w", id.String(), err)
	}

	return &collection, nil
}

func (r *collectionRepository) FindByName(ctx context.Context, name string) (*entity.Collection, error) {
	query := `SELECT id, name, created_at, updated_at FROM collections WHERE LOWER(name) = LOWER($1)`

	var collection entity.Collection
	err := r.db.QueryRow(ctx, query, name).Scan(&collection.ID, &collection.Name, &collection.CreatedAt, &collection.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find collection by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find collection %s: %w", name, err)
	}

	return &collection, nil
}

func (r *collectionRepository) FindAll(ctx context.Context) ([]*entity.Collection, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM collections ORDER BY name`)
	if err != nil {
		r.log.Error("Failed to find collections", zap.Error(err))
		return nil, fmt.Errorf("find collections: %w", err)
	}
	defer rows.Close()

	return collectCollections(rows)
}

func (r *collectionRepository) FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Collection, error) {
	query := `
		SELECT c.id, c.name, c.created_at, c.updated_at
		FROM collections c
		JOIN content_collections cc ON cc.collection_id = c.id
		WHERE cc.content_id = $1
		ORDER BY c.name
	`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		r.log.Error("Failed to find collections by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return nil, fmt.Errorf("find collections for content %s: %w", contentID.String(), err)
	}
	defer rows.Close()

	return collectCollections(rows)
}

func collectCollections(rows pgx.Rows) ([]*entity.Collection, error) {
	collections := []*entity.Collection{}
	for rows.Next() {
		var collection entity.Collection
		if err := rows.Scan(&collection.ID, &collection.Name, &collection.CreatedAt, &collection.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, &collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *entity.Collection) error {
	result, err := r.db.Exec(ctx,
		`UPDATE collections SET name = $2, updated_at = $3 WHERE id = $1`,
		collection.ID, collection.Name, collection.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update collection", zap.Error(err), zap.String("collection_id", collection.ID.String()))
		return fmt.Errorf("update collection %s: %w", collection.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("collection %s: %w", collection.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the collection; content_collections rows cascade.
func (r *collectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete collection", zap.Error(err), zap.String("collection_id", id.String()))
		return fmt.Errorf("delete collection %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("collection %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
