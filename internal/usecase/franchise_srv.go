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

type FranchiseService interface {
	GetAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FranchiseResponse], error)
	GetDetails(ctx context.Context, franchiseID string) (*response.FranchiseDetailResponse, error)
	Create(ctx context.Context, req *request.NameRequest) (*response.FranchiseResponse, error)
	Update(ctx context.Context, franchiseID string, req *request.NameRequest) (*response.FranchiseResponse, error)
	Delete(ctx context.Context, franchiseID string) error
}

type franchiseService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFranchiseService(repo *repository.Repository, log *zap.Logger) FranchiseService {
	return &franchiseService{
		repo: repo,
		log:  log.With(zap.String("service", "franchise")),
	}
}

func (s *franchiseService) GetAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FranchiseResponse], error) {
	normalizePage(req)

	franchises, err := s.repo.Franchise.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list franchises", zap.Error(err))
		return nil, fmt.Errorf("list franchises: %w", err)
	}

	total, err := s.repo.Franchise.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count franchises", zap.Error(err))
		return nil, fmt.Errorf("count franchises: %w", err)
	}

	data := make([]response.FranchiseResponse, len(franchises))
	for i, f := range franchises {
		data[i] = response.FranchiseToResponse(f)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *franchiseService) load(ctx context.Context, franchiseID string) (*entity.Franchise, error) {
	id, err := parseID(franchiseID, "franchise id")
	if err != nil {
		return nil, err
	}
	franchise, err := s.repo.Franchise.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find franchise: %w", err)
	}
	if franchise == nil {
		return nil, notFound("franchise")
	}
	return franchise, nil
}

// GetDetails lists the franchise's content in franchise order.
func (s *franchiseService) GetDetails(ctx context.Context, franchiseID string) (*response.FranchiseDetailResponse, error) {
	franchise, err := s.load(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	contents, err := s.repo.Content.FindByFranchiseID(ctx, franchise.ID)
	if err != nil {
		s.log.Error("Failed to list franchise content", zap.Error(err), zap.String("franchise_id", franchiseID))
		return nil, fmt.Errorf("list franchise content: %w", err)
	}

	detail := &response.FranchiseDetailResponse{
		FranchiseResponse: response.FranchiseToResponse(franchise),
		Contents:          make([]response.ContentResponse, 0, len(contents)),
	}
	for _, content := range contents {
		genres, err := s.repo.Genre.FindByContentID(ctx, content.ID)
		if err != nil {
			return nil, fmt.Errorf("load genres: %w", err)
		}
		names := make([]string, len(genres))
		for i, g := range genres {
			names[i] = g.Name
		}
		detail.Contents = append(detail.Contents, response.ContentToResponse(content, names))
	}

	return detail, nil
}

func (s *franchiseService) Create(ctx context.Context, req *request.NameRequest) (*response.FranchiseResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	franchise := &entity.Franchise{
		Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name: strings.TrimSpace(req.Name),
	}
	if err := s.repo.Franchise.Create(ctx, franchise); err != nil {
		s.log.Error("Failed to create franchise", zap.Error(err), zap.String("name", franchise.Name))
		return nil, fmt.Errorf("create franchise: %w", err)
	}

	s.log.Info("Franchise created", zap.String("franchise_id", franchise.ID.String()), zap.String("name", franchise.Name))
	resp := response.FranchiseToResponse(franchise)
	return &resp, nil
}

func (s *franchiseService) Update(ctx context.Context, franchiseID string, req *request.NameRequest) (*response.FranchiseResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	franchise, err := s.load(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	franchise.Name = strings.TrimSpace(req.Name)
	franchise.UpdatedAt = time.Now()
	if err := s.repo.Franchise.Update(ctx, franchise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("franchise")
		}
		s.log.Error("Failed to update franchise", zap.Error(err), zap.String("franchise_id", franchiseID))
		return nil, fmt.Errorf("update franchise: %w", err)
	}

	resp := response.FranchiseToResponse(franchise)
	return &resp, nil
}

// Delete detaches member content (franchise_id is set to NULL by the schema).
func (s *franchiseService) Delete(ctx context.Context, franchiseID string) error {
	id, err := parseID(franchiseID, "franchise id")
	if err != nil {
		return err
	}

	if err := s.repo.Franchise.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("franchise")
		}
		s.log.Error("Failed to delete franchise", zap.Error(err), zap.String("franchise_id", franchiseID))
		return fmt.Errorf("delete franchise: %w", err)
	}

	s.log.Info("Franchise deleted", zap.String("franchise_id", franchiseID))
	return nil
}
