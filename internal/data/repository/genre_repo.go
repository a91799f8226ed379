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

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error)
	FindByName(ctx context.Context, name string) (*entity.Genre, error)
	FindAll(ctx context.Context) ([]*entity.Genre, error)
	FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Genre, error)
	Update(ctx context.Context, genre *entity.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, genre.ID, genre.Name, genre.CreatedAt, genre.UpdatedAt); err != nil {
		r.log.Error("Failed to create genre", zap.Error(err), zap.String("name", genre.Name))
		return fmt.Errorf("create genre %s: %w", genre.Name, classify(err))
	}

	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	query := `SELECT id, name, created_at, updated_at FROM genres WHERE id = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, id).Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID", zap.Error(err), zap.String("genre_id", id.String()))
		return nil, fmt.Errorf("find genre %s: %w", id.String(), err)
	}

	return &genre, nil
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	query := `SELECT id, name, created_at, updated_at FROM genres WHERE LOWER(name) = LOWER($1)`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, name).Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find genre %s: %w", name, err)
	}

	return &genre, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM genres ORDER BY name`)
	if err != nil {
		r.log.Error("Failed to find genres", zap.Error(err))
		return nil, fmt.Errorf("find genres: %w", err)
	}
	defer rows.Close()

	return collectGenres(rows)
}

func (r *genreRepository) FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Genre, error) {
	query := `
		SELECT g.id, g.name, g.created_at, g.updated_at
		FROM genres g
		JOIN content_genres cg ON cg.genre_id = g.id
		WHERE cg.content_id = $1
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		r.log.Error("Failed to find genres by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return nil, fmt.Errorf("find genres for content %s: %w", contentID.String(), err)
	}
	defer rows.Close()

	return collectGenres(rows)
}

func collectGenres(rows pgx.Rows) ([]*entity.Genre, error) {
	genres := []*entity.Genre{}
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, &genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}

	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, genre *entity.Genre) error {
	result, err := r.db.Exec(ctx,
		`UPDATE genres SET name = $2, updated_at = $3 WHERE id = $1`,
		genre.ID, genre.Name, genre.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genre.ID.String()))
		return fmt.Errorf("update genre %s: %w", genre.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s: %w", genre.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the genre; content_genres rows cascade.
func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", id.String()))
		return fmt.Errorf("delete genre %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
