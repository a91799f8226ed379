package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/dto/response"
	"streaming-catalog/internal/media"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EpisodeService interface {
	Add(ctx context.Context, req *request.EpisodeRequest) (*response.EpisodeResponse, error)
	Update(ctx context.Context, episodeID string, req *request.EpisodeUpdateRequest) (*response.EpisodeResponse, error)
	Delete(ctx context.Context, episodeID string) error
	GetByContent(ctx context.Context, contentID string) ([]response.EpisodeResponse, error)
	GetByID(ctx context.Context, episodeID string) (*response.EpisodeResponse, error)
}

type episodeService struct {
	repo   *repository.Repository
	videos media.VideoService
	log    *zap.Logger
	now    func() time.Time
}

func NewEpisodeService(repo *repository.Repository, videos media.VideoService, log *zap.Logger) EpisodeService {
	return &episodeService{
		repo:   repo,
		videos: videos,
		log:    log.With(zap.String("service", "episode")),
		now:    time.Now,
	}
}

func parseStatus(value string) entity.EpisodeStatus {
	if strings.EqualFold(value, string(entity.EpisodeStatusPublished)) {
		return entity.EpisodeStatusPublished
	}
	return entity.EpisodeStatusDraft
}

func errEpisodeExists(number int) error {
	return fmt.Errorf("episode %d already exists for this content: %w", number, ErrConflict)
}

func (s *episodeService) Add(ctx context.Context, req *request.EpisodeRequest) (*response.EpisodeResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkVideoFile(req.Video); err != nil {
		return nil, err
	}
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, newValidationError("contentId", "Invalid content id")
	}

	// 2. Content must exist and be a series
	content, err := s.repo.Content.FindByID(ctx, contentID)
	if err != nil {
		s.log.Error("Failed to find content", zap.Error(err), zap.String("content_id", req.ContentID))
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, notFound("content")
	}
	if content.Type != entity.ContentTypeSeries {
		return nil, newValidationError("contentId", "Episodes can only be added to series")
	}

	// 3. Number must be free
	existing, err := s.repo.Episode.FindByContentAndNumber(ctx, contentID, req.Number)
	if err != nil {
		return nil, fmt.Errorf("check episode number: %w", err)
	}
	if existing != nil {
		return nil, errEpisodeExists(req.Number)
	}

	// 4. Upload video
	uploads := newUploadBatch(nil, s.videos, s.log)
	var videoURL string
	if req.Video != nil {
		if videoURL, err = uploads.video(ctx, "video", req.Video); err != nil {
			return nil, err
		}
	}

	// 5. Save, the unique constraint settles races
	now := s.now()
	episode := &entity.Episode{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ContentID:       contentID,
		Number:          req.Number,
		Title:           strings.TrimSpace(req.Title),
		VideoURL:        videoURL,
		DurationMinutes: req.DurationMinutes,
		Status:          parseStatus(req.Status),
	}

	if err := s.repo.Episode.Create(ctx, episode); err != nil {
		uploads.rollback()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEpisodeExists(req.Number)
		}
		s.log.Error("Failed to create episode", zap.Error(err), zap.String("content_id", req.ContentID))
		return nil, fmt.Errorf("create episode: %w", err)
	}

	s.log.Info("Episode added",
		zap.String("episode_id", episode.ID.String()),
		zap.String("content_id", req.ContentID),
		zap.Int("number", episode.Number))

	resp := response.EpisodeToResponse(episode)
	return &resp, nil
}

func (s *episodeService) load(ctx context.Context, episodeID string) (*entity.Episode, error) {
	id, err := parseID(episodeID, "episode id")
	if err != nil {
		return nil, err
	}

	episode, err := s.repo.Episode.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find episode", zap.Error(err), zap.String("episode_id", episodeID))
		return nil, fmt.Errorf("find episode: %w", err)
	}
	if episode == nil {
		return nil, notFound("episode")
	}
	return episode, nil
}

func (s *episodeService) Update(ctx context.Context, episodeID string, req *request.EpisodeUpdateRequest) (*response.EpisodeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkVideoFile(req.Video); err != nil {
		return nil, err
	}

	episode, err := s.load(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	// 1. A new number must be free
	if req.Number != episode.Number {
		existing, err := s.repo.Episode.FindByContentAndNumber(ctx, episode.ContentID, req.Number)
		if err != nil {
			return nil, fmt.Errorf("check episode number: %w", err)
		}
		if existing != nil && existing.ID != episode.ID {
			return nil, errEpisodeExists(req.Number)
		}
	}

	// 2. Replace video
	uploads := newUploadBatch(nil, s.videos, s.log)
	oldVideo := ""
	if req.Video != nil {
		path, err := uploads.video(ctx, "video", req.Video)
		if err != nil {
			return nil, err
		}
		oldVideo = episode.VideoURL
		episode.VideoURL = path
	}

	// 3. Save
	episode.Number = req.Number
	episode.Title = strings.TrimSpace(req.Title)
	episode.DurationMinutes = req.DurationMinutes
	if req.Status != "" {
		episode.Status = parseStatus(req.Status)
	}
	episode.UpdatedAt = s.now()

	if err := s.repo.Episode.Update(ctx, episode); err != nil {
		uploads.rollback()
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, errEpisodeExists(req.Number)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("episode")
		}
		s.log.Error("Failed to update episode", zap.Error(err), zap.String("episode_id", episodeID))
		return nil, fmt.Errorf("update episode: %w", err)
	}

	removeFiles(ctx, s.log, nil, s.videos, nil, []string{oldVideo})

	s.log.Info("Episode updated", zap.String("episode_id", episodeID))
	resp := response.EpisodeToResponse(episode)
	return &resp, nil
}

func (s *episodeService) Delete(ctx context.Context, episodeID string) error {
	episode, err := s.load(ctx, episodeID)
	if err != nil {
		return err
	}

	if err := s.repo.Episode.Delete(ctx, episode.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("episode")
		}
		s.log.Error("Failed to delete episode", zap.Error(err), zap.String("episode_id", episodeID))
		return fmt.Errorf("delete episode: %w", err)
	}

	removeFiles(ctx, s.log, nil, s.videos, nil, []string{episode.VideoURL})

	s.log.Info("Episode deleted", zap.String("episode_id", episodeID))
	return nil
}

func (s *episodeService) GetByContent(ctx context.Context, contentID string) ([]response.EpisodeResponse, error) {
	id, err := parseID(contentID, "content id")
	if err != nil {
		return nil, err
	}

	content, err := s.repo.Content.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, notFound("content")
	}

	episodes, err := s.repo.Episode.FindByContentID(ctx, id)
	if err != nil {
		s.log.Error("Failed to list episodes", zap.Error(err), zap.String("content_id", contentID))
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	return response.EpisodesToResponse(episodes), nil
}

func (s *episodeService) GetByID(ctx context.Context, episodeID string) (*response.EpisodeResponse, error) {
	episode, err := s.load(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	resp := response.EpisodeToResponse(episode)
	return &resp, nil
}
