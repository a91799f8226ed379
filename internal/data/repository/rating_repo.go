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

type RatingRepository interface {
	// Upsert inserts the user's rating or overwrites the one they already gave.
	Upsert(ctx context.Context, rating *entity.Rating) error
	FindByUserAndContent(ctx context.Context, userID, contentID uuid.UUID) (*entity.Rating, error)
	FindByContentID(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Rating, error)
	CountByContentID(ctx context.Context, contentID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, contentID uuid.UUID) error

	// Business queries
	GetContentRatingStats(ctx context.Context, contentID uuid.UUID) (float64, int64, error) // average, count
}

type ratingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRatingRepository(db database.PgxIface, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

const ratingColumns = `id, user_id, content_id, score, comment, created_at, updated_at`

func scanRating(row pgx.Row) (*entity.Rating, error) {
	var rating entity.Rating
	err := row.Scan(
		&rating.ID,
		&rating.UserID,
		&rating.ContentID,
		&rating.Score,
		&rating.Comment,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, user_id, content_id, score, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, content_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		rating.ID,
		rating.UserID,
		rating.ContentID,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("user_id", rating.UserID.String()),
			zap.String("content_id", rating.ContentID.String()),
		)
		return fmt.Errorf("upsert rating for content %s by user %s: %w",
			rating.ContentID.String(), rating.UserID.String(), classify(err))
	}

	return nil
}

func (r *ratingRepository) FindByUserAndContent(ctx context.Context, userID, contentID uuid.UUID) (*entity.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 AND content_id = $2`

	rating, err := scanRating(r.db.QueryRow(ctx, query, userID, contentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating", zap.Error(err))
		return nil, fmt.Errorf("find rating for content %s by user %s: %w", contentID.String(), userID.String(), err)
	}

	return rating, nil
}

func (r *ratingRepository) FindByContentID(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]*entity.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE content_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, contentID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find ratings by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find ratings for content %s: %w", contentID.String(), err)
	}
	defer rows.Close()

	ratings := []*entity.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}

func (r *ratingRepository) CountByContentID(ctx context.Context, contentID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ratings WHERE content_id = $1`, contentID).Scan(&total); err != nil {
		r.log.Error("Failed to count ratings", zap.Error(err), zap.String("content_id", contentID.String()))
		return 0, fmt.Errorf("count ratings for content %s: %w", contentID.String(), err)
	}
	return total, nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID, contentID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	if err != nil {
		r.log.Error("Failed to delete rating", zap.Error(err))
		return fmt.Errorf("delete rating for content %s: %w", contentID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rating for content %s: %w", contentID.String(), ErrNotFound)
	}

	return nil
}

func (r *ratingRepository) GetContentRatingStats(ctx context.Context, contentID uuid.UUID) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(score), 0)::float8, COUNT(*) FROM ratings WHERE content_id = $1`

	var avg float64
	var count int64
	if err := r.db.QueryRow(ctx, query, contentID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get rating stats", zap.Error(err), zap.String("content_id", contentID.String()))
		return 0, 0, fmt.Errorf("rating stats for content %s: %w", contentID.String(), err)
	}

	return avg, count, nil
}
