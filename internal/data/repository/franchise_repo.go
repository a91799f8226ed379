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

type FranchiseRepository interface {
	Create(ctx context.Context, franchise *entity.Franchise) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Franchise, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Franchise, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, franchise *entity.Franchise) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type franchiseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFranchiseRepository(db database.PgxIface, log *zap.Logger) FranchiseRepository {
	return &franchiseRepository{
		db:  db,
		log: log.With(zap.String("repository", "franchise")),
	}
}

func (r *franchiseRepository) Create(ctx context.Context, franchise *entity.Franchise) error {
	query := `INSERT INTO franchises (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, franchise.ID, franchise.Name, franchise.CreatedAt, franchise.UpdatedAt); err != nil {
		r.log.Error("Failed to create franchise", zap.Error(err), zap.String("name", franchise.Name))
		return fmt.Errorf("create franchise %s: %w", franchise.Name, err)
	}

	return nil
}

func (r *franchiseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Franchise, error) {
	query := `SELECT id, name, created_at, updated_at FROM franchises WHERE id = $1`

	var franchise entity.Franchise
	err := r.db.QueryRow(ctx, query, id).Scan(
		&franchise.ID,
		&franchise.Name,
		&franchise.CreatedAt,
		&franchise.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find franchise by ID",
			zap.Error(err),
			zap.String("franchise_id", id.String()),
		)
		return nil, fmt.Errorf("find franchise %s: %w", id.String(), err)
	}

	return &franchise, nil
}

func (r *franchiseRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Franchise, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM franchises
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find franchises",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find franchises: %w", err)
	}
	defer rows.Close()

	franchises := []*entity.Franchise{}
	for rows.Next() {
		var franchise entity.Franchise
		if err := rows.Scan(&franchise.ID, &franchise.Name, &franchise.CreatedAt, &franchise.UpdatedAt); err != nil {
			r.log.Error("Failed to scan franchise row", zap.Error(err))
			return nil, fmt.Errorf("scan franchise: %w", err)
		}
		franchises = append(franchises, &franchise)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate franchises: %w", err)
	}

	return franchises, nil
}

func (r *franchiseRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM franchises`).Scan(&total); err != nil {
		r.log.Error("Failed to count franchises", zap.Error(err))
		return 0, fmt.Errorf("count franchises: %w", err)
	}
	return total, nil
}

func (r *franchiseRepository) Update(ctx context.Context, franchise *entity.Franchise) error {
	result, err := r.db.Exec(ctx,
		`UPDATE franchises SET name = $2, updated_at = $3 WHERE id = $1`,
		franchise.ID, franchise.Name, franchise.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update franchise",
			zap.Error(err),
			zap.String("franchise_id", franchise.ID.String()),
		)
		return fmt.Errorf("update franchise %s: %w", franchise.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("franchise %s: %w", franchise.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the franchise; member content keeps existing with franchise_id set to NULL.
func (r *franchiseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM franchises WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete franchise",
			zap.Error(err),
			zap.String("franchise_id", id.String()),
		)
		return fmt.Errorf("delete franchise %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("franchise %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
