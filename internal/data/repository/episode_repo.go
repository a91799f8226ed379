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

type EpisodeRepository interface {
	Create(ctx context.Context, episode *entity.Episode) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Episode, error)
	FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Episode, error)
	FindByContentAndNumber(ctx context.Context, contentID uuid.UUID, number int) (*entity.Episode, error)
	Update(ctx context.Context, episode *entity.Episode) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type episodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEpisodeRepository(db database.PgxIface, log *zap.Logger) EpisodeRepository {
	return &episodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "episode")),
	}
}

const episodeColumns = `id, content_id, number, title, video_url, duration_minutes, status, created_at, updated_at`

func scanEpisode(row pgx.Row) (*entity.Episode, error) {
	var episode entity.Episode
	err := row.Scan(
		&episode.ID,
		&episode.ContentID,
		&episode.Number,
		&episode.Title,
		&episode.VideoURL,
		&episode.DurationMinutes,
		&episode.Status,
		&episode.CreatedAt,
		&episode.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (r *episodeRepository) Create(ctx context.Context, episode *entity.Episode) error {
	query := `
		INSERT INTO episodes (id, content_id, number, title, video_url, duration_minutes,
		                      status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		episode.ID,
		episode.ContentID,
		episode.Number,
		episode.Title,
		episode.VideoURL,
		episode.DurationMinutes,
		episode.Status,
		episode.CreatedAt,
		episode.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create episode",
			zap.Error(err),
			zap.String("content_id", episode.ContentID.String()),
			zap.Int("number", episode.Number),
		)
		return fmt.Errorf("create episode %d for content %s: %w",
			episode.Number, episode.ContentID.String(), classify(err))
	}

	return nil
}

func (r *episodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Episode, error) {
	episode, err := scanEpisode(r.db.QueryRow(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find episode by ID",
			zap.Error(err),
			zap.String("episode_id", id.String()),
		)
		return nil, fmt.Errorf("find episode %s: %w", id.String(), err)
	}

	return episode, nil
}

func (r *episodeRepository) FindByContentAndNumber(ctx context.Context, contentID uuid.UUID, number int) (*entity.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE content_id = $1 AND number = $2`

	episode, err := scanEpisode(r.db.QueryRow(ctx, query, contentID, number))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find episode by number",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
			zap.Int("number", number),
		)
		return nil, fmt.Errorf("find episode %d of content %s: %w", number, contentID.String(), err)
	}

	return episode, nil
}

func (r *episodeRepository) FindByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE content_id = $1 ORDER BY number`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		r.log.Error("Failed to find episodes by content ID",
			zap.Error(err),
			zap.String("content_id", contentID.String()),
		)
		return nil, fmt.Errorf("find episodes for content %s: %w", contentID.String(), err)
	}
	defer rows.Close()

	episodes := []*entity.Episode{}
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			r.log.Error("Failed to scan episode row", zap.Error(err))
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}

	return episodes, nil
}

func (r *episodeRepository) Update(ctx context.Context, episode *entity.Episode) error {
	query := `
		UPDATE episodes
		SET number = $2, title = $3, video_url = $4, duration_minutes = $5,
		    status = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		episode.ID,
		episode.Number,
		episode.Title,
		episode.VideoURL,
		episode.DurationMinutes,
		episode.Status,
		episode.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update episode",
			zap.Error(err),
			zap.String("episode_id", episode.ID.String()),
		)
		return fmt.Errorf("update episode %s: %w", episode.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("episode %s: %w", episode.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *episodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM episodes WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete episode",
			zap.Error(err),
			zap.String("episode_id", id.String()),
		)
		return fmt.Errorf("delete episode %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("episode %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
