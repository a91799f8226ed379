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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenreService interface {
	GetAll(ctx context.Context) ([]response.GenreResponse, error)
	GetByID(ctx context.Context, genreID string) (*response.GenreResponse, error)
	Create(ctx context.Context, req *request.NameRequest) (*response.GenreResponse, error)
	Update(ctx context.Context, genreID string, req *request.NameRequest) (*response.GenreResponse, error)
	Delete(ctx context.Context, genreID string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	log       *zap.Logger
}

func NewGenreService(genreRepo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		log:       log.With(zap.String("service", "genre")),
	}
}

var errGenreExists = newValidationError("name", "Genre already exists")

func (s *genreService) GetAll(ctx context.Context) ([]response.GenreResponse, error) {
	genres, err := s.genreRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list genres", zap.Error(err))
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return response.GenresToResponse(genres), nil
}

func (s *genreService) load(ctx context.Context, genreID string) (*entity.Genre, error) {
	id, err := parseID(genreID, "genre id")
	if err != nil {
		return nil, err
	}
	genre, err := s.genreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find genre: %w", err)
	}
	if genre == nil {
		return nil, notFound("genre")
	}
	return genre, nil
}

func (s *genreService) GetByID(ctx context.Context, genreID string) (*response.GenreResponse, error) {
	genre, err := s.load(ctx, genreID)
	if err != nil {
		return nil, err
	}
	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Create(ctx context.Context, req *request.NameRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.genreRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check genre name: %w", err)
	}
	if existing != nil {
		return nil, errGenreExists
	}

	now := time.Now()
	genre := &entity.Genre{
		Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name: name,
	}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errGenreExists
		}
		s.log.Error("Failed to create genre", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created", zap.String("genre_id", genre.ID.String()), zap.String("name", name))
	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Update(ctx context.Context, genreID string, req *request.NameRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	genre, err := s.load(ctx, genreID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.genreRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check genre name: %w", err)
	}
	if existing != nil && existing.ID != genre.ID {
		return nil, errGenreExists
	}

	genre.Name = name
	genre.UpdatedAt = time.Now()
	if err := s.genreRepo.Update(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errGenreExists
		}
		s.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genreID))
		return nil, fmt.Errorf("update genre: %w", err)
	}

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, genreID string) error {
	id, err := parseID(genreID, "genre id")
	if err != nil {
		return err
	}

	if err := s.genreRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("genre")
		}
		s.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", genreID))
		return fmt.Errorf("delete genre: %w", err)
	}

	s.log.Info("Genre deleted", zap.String("genre_id", genreID))
	return nil
}
