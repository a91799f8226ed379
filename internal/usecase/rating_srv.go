package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	Rate(ctx context.Context, userID uuid.UUID, req *request.RateRequest) (*response.RatingSummary, error)
	GetByContent(ctx context.Context, contentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RatingResponse], error)
	Delete(ctx context.Context, userID uuid.UUID, contentID string) error
}

type ratingService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewRatingService(repo *repository.Repository, log *zap.Logger) RatingService {
	return &ratingService{
		repo: repo,
		log:  log.With(zap.String("service", "rating")),
		now:  time.Now,
	}
}

func (s *ratingService) content(ctx context.Context, id uuid.UUID) (*entity.Content, error) {
	content, err := s.repo.Content.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, notFound("content")
	}
	return content, nil
}

// refreshAverage stores the rounded mean score on the content. Content nobody has rated keeps its
// editorial rating.
func (s *ratingService) refreshAverage(ctx context.Context, contentID uuid.UUID) (float64, int64, error) {
	avg, count, err := s.repo.Rating.GetContentRatingStats(ctx, contentID)
	if err != nil {
		return 0, 0, fmt.Errorf("rating stats: %w", err)
	}
	if count == 0 {
		return 0, 0, nil
	}

	avg = math.Round(avg*10) / 10
	if err := s.repo.Content.UpdateRating(ctx, contentID, avg); err != nil {
		s.log.Error("Failed to update content rating", zap.Error(err), zap.String("content_id", contentID.String()))
		return 0, 0, fmt.Errorf("update content rating: %w", err)
	}
	return avg, count, nil
}

func (s *ratingService) Rate(ctx context.Context, userID uuid.UUID, req *request.RateRequest) (*response.RatingSummary, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, newValidationError("contentId", "Invalid content id")
	}
	if _, err := s.content(ctx, contentID); err != nil {
		return nil, err
	}

	// 2. Upsert
	now := s.now()
	rating := &entity.Rating{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		ContentID: contentID,
		Score:     req.Score,
	}
	if req.Comment != nil {
		if comment := strings.TrimSpace(*req.Comment); comment != "" {
			rating.Comment = &comment
		}
	}

	if err := s.repo.Rating.Upsert(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, notFound("content")
		}
		s.log.Error("Failed to save rating", zap.Error(err), zap.String("content_id", req.ContentID))
		return nil, fmt.Errorf("save rating: %w", err)
	}

	// 3. Recompute average
	avg, count, err := s.refreshAverage(ctx, contentID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Content rated",
		zap.String("content_id", req.ContentID),
		zap.String("user_id", userID.String()),
		zap.Int("score", req.Score))

	return &response.RatingSummary{
		Rating:        response.RatingToResponse(rating, s.username(ctx, userID)),
		AverageRating: avg,
		RatingCount:   count,
	}, nil
}

func (s *ratingService) username(ctx context.Context, userID uuid.UUID) string {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Username
}

func (s *ratingService) GetByContent(ctx context.Context, contentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RatingResponse], error) {
	normalizePage(req)
	id, err := parseID(contentID, "content id")
	if err != nil {
		return nil, err
	}
	if _, err := s.content(ctx, id); err != nil {
		return nil, err
	}

	ratings, err := s.repo.Rating.FindByContentID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list ratings", zap.Error(err), zap.String("content_id", contentID))
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	total, err := s.repo.Rating.CountByContentID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	names := map[uuid.UUID]string{}
	data := make([]response.RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		name, ok := names[rating.UserID]
		if !ok {
			name = s.username(ctx, rating.UserID)
			names[rating.UserID] = name
		}
		data = append(data, response.RatingToResponse(rating, name))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *ratingService) Delete(ctx context.Context, userID uuid.UUID, contentID string) error {
	id, err := parseID(contentID, "content id")
	if err != nil {
		return err
	}

	if err := s.repo.Rating.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("rating")
		}
		s.log.Error("Failed to delete rating", zap.Error(err), zap.String("content_id", contentID))
		return fmt.Errorf("delete rating: %w", err)
	}

	if _, _, err := s.refreshAverage(ctx, id); err != nil {
		return err
	}

	s.log.Info("Rating deleted", zap.String("content_id", contentID), zap.String("user_id", userID.String()))
	return nil
}
