package repository

import (
	"context"
	"fmt"
	"strings"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ContentRepository interface {
	// CRUD Content
	Create(ctx context.Context, content *entity.Content) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Content, error)
	Update(ctx context.Context, content *entity.Content) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, offset, limit int, filter entity.ContentFilter) ([]*entity.Content, error)
	CountAll(ctx context.Context, filter entity.ContentFilter) (int64, error)
	FindByFranchiseID(ctx context.Context, franchiseID uuid.UUID) ([]*entity.Content, error)

	// Update rating
	UpdateRating(ctx context.Context, contentID uuid.UUID, newRating float64) error
}

type contentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewContentRepository(db database.PgxIface, log *zap.Logger) ContentRepository {
	return &contentRepository{
		db:  db,
		log: log.With(zap.String("repository", "content")),
	}
}

const contentColumns = `c.id, c.title, c.description, c.poster_url, c.backdrop_url, c.video_url,
		       c.rating, c.age_limit, c.release_year, c.type, c.franchise_id, c.franchise_order,
		       c.created_at, c.updated_at`

func scanContent(row pgx.Row) (*entity.Content, error) {
	var content entity.Content
	err := row.Scan(
		&content.ID,
		&content.Title,
		&content.Description,
		&content.PosterURL,
		&content.BackdropURL,
		&content.VideoURL,
		&content.Rating,
		&content.AgeLimit,
		&content.ReleaseYear,
		&content.Type,
		&content.FranchiseID,
		&content.FranchiseOrder,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) Create(ctx context.Context, content *entity.Content) error {
	query := `
		INSERT INTO contents (id, title, description, poster_url, backdrop_url, video_url,
		                      rating, age_limit, release_year, type, franchise_id, franchise_order,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		content.ID,
		content.Title,
		content.Description,
		content.PosterURL,
		content.BackdropURL,
		content.VideoURL,
		content.Rating,
		content.AgeLimit,
		content.ReleaseYear,
		content.Type,
		content.FranchiseID,
		content.FranchiseOrder,
		content.CreatedAt,
		content.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create content",
			zap.Error(err),
			zap.String("title", content.Title),
		)
		return fmt.Errorf("create content: %w", classify(err))
	}

	return nil
}

func (r *contentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents c WHERE c.id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find content by ID",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return nil, fmt.Errorf("find content %s: %w", id.String(), err)
	}

	return content, nil
}

// contentWhere renders the filter as a WHERE clause whose placeholders start at $1.
func contentWhere(filter entity.ContentFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Type != "" {
		add("c.type = $%d", filter.Type)
	}
	if filter.GenreID != nil {
		add("EXISTS (SELECT 1 FROM content_genres cg WHERE cg.content_id = c.id AND cg.genre_id = $%d)", *filter.GenreID)
	}
	if filter.CollectionID != nil {
		add("EXISTS (SELECT 1 FROM content_collections cc WHERE cc.content_id = c.id AND cc.collection_id = $%d)", *filter.CollectionID)
	}
	if filter.FranchiseID != nil {
		add("c.franchise_id = $%d", *filter.FranchiseID)
	}
	if filter.ReleaseYear > 0 {
		add("c.release_year = $%d", filter.ReleaseYear)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add("c.title ILIKE $%d", "%"+search+"%")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *contentRepository) FindAll(ctx context.Context, offset, limit int, filter entity.ContentFilter) ([]*entity.Content, error) {
	where, args := contentWhere(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + contentColumns + ` FROM contents c`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.created_at DESC, c.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all contents",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find contents: %w", err)
	}
	defer rows.Close()

	contents, err := collectContents(rows)
	if err != nil {
		r.log.Error("Failed to read content rows", zap.Error(err))
		return nil, err
	}

	r.log.Debug("Contents found",
		zap.Int("count", len(contents)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return contents, nil
}

func (r *contentRepository) CountAll(ctx context.Context, filter entity.ContentFilter) (int64, error) {
	where, args := contentWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contents c`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count contents", zap.Error(err))
		return 0, fmt.Errorf("count contents: %w", err)
	}

	return total, nil
}

func (r *contentRepository) FindByFranchiseID(ctx context.Context, franchiseID uuid.UUID) ([]*entity.Content, error) {
	query := `SELECT ` + contentColumns + `
		FROM contents c
		WHERE c.franchise_id = $1
		ORDER BY c.franchise_order NULLS LAST, c.release_year, c.title`

	rows, err := r.db.Query(ctx, query, franchiseID)
	if err != nil {
		r.log.Error("Failed to find contents by franchise",
			zap.Error(err),
			zap.String("franchise_id", franchiseID.String()),
		)
		return nil, fmt.Errorf("find contents for franchise %s: %w", franchiseID.String(), err)
	}
	defer rows.Close()

	return collectContents(rows)
}

func collectContents(rows pgx.Rows) ([]*entity.Content, error) {
	contents := []*entity.Content{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contents: %w", err)
	}

	return contents, nil
}

func (r *contentRepository) Update(ctx context.Context, content *entity.Content) error {
	query := `
		UPDATE contents
		SET title = $2, description = $3, poster_url = $4, backdrop_url = $5, video_url = $6,
		    rating = $7, age_limit = $8, release_year = $9, type = $10,
		    franchise_id = $11, franchise_order = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		content.ID,
		content.Title,
		content.Description,
		content.PosterURL,
		content.BackdropURL,
		content.VideoURL,
		content.Rating,
		content.AgeLimit,
		content.ReleaseYear,
		content.Type,
		content.FranchiseID,
		content.FranchiseOrder,
		content.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update content",
			zap.Error(err),
			zap.String("content_id", content.ID.String()),
		)
		return fmt.Errorf("update content %s: %w", content.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("content %s: %w", content.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the row; episodes, ratings and bridge rows go with it via ON DELETE CASCADE.
func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete content",
			zap.Error(err),
			zap.String("content_id", id.String()),
		)
		return fmt.Errorf("delete content %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("content %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Content deleted", zap.String("content_id", id.String()))
	return nil
}

func (r *contentRepository) UpdateRating(ctx context.Context, contentID uuid.UUID, newRating float64) error {
	query := `UPDATE contents SET rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, contentID, newRating)
	if err != nil {
		r.log.Error("Failed to update content rating",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
			zap.Float64("new_rating", newRating),
		)
		return fmt.Errorf("update rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("content %s: %w", contentID.String(), ErrNotFound)
	}

	return nil
}
