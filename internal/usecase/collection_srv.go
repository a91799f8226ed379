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

type CollectionService interface {
	GetAll(ctx context.Context) ([]response.CollectionResponse, error)
	GetByID(ctx context.Context, collectionID string) (*response.CollectionResponse, error)
	Create(ctx context.Context, req *request.NameRequest) (*response.CollectionResponse, error)
	Update(ctx context.Context, collectionID string, req *request.NameRequest) (*response.CollectionResponse, error)
	Delete(ctx context.Context, collectionID string) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
	log            *zap.Logger
}

func NewCollectionService(collectionRepo repository.CollectionRepository, log *zap.Logger) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		log:            log.With(zap.String("service", "collection")),
	}
}

var errCollectionExists = newValidationError("name", "Collection already exists")

func (s *collectionService) GetAll(ctx context.Context) ([]response.CollectionResponse, error) {
	collections, err := s.collectionRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list collections", zap.Error(err))
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return response.CollectionsToResponse(collections), nil
}

func (s *collectionService) load(ctx context.Context, collectionID string) (*entity.Collection, error) {
	id, err := parseID(collectionID, "collection id")
	if err != nil {
		return nil, err
	}
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	if collection == nil {
		return nil, notFound("collection")
	}
	return collection, nil
}

func (s *collectionService) GetByID(ctx context.Context, collectionID string) (*response.CollectionResponse, error) {
	collection, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	resp := response.CollectionToResponse(collection)
	return &resp, nil
}

func (s *collectionService) Create(ctx context.Context, req *request.NameRequest) (*response.CollectionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.collectionRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check collection name: %w", err)
	}
	if existing != nil {
		return nil, errCollectionExists
	}

	now := time.Now()
	collection := &entity.Collection{
		Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name: name,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errCollectionExists
		}
		s.log.Error("Failed to create collection", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.log.Info("Collection created", zap.String("collection_id", collection.ID.String()), zap.String("name", name))
	resp := response.CollectionToResponse(collection)
	return &resp, nil
}

func (s *collectionService) Update(ctx context.Context, collectionID string, req *request.NameRequest) (*response.CollectionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	collection, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.collectionRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check collection name: %w", err)
	}
	if existing != nil && existing.ID != collection.ID {
		return nil, errCollectionExists
	}

	collection.Name = name
	collection.UpdatedAt = time.Now()
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errCollectionExists
		}
		s.log.Error("Failed to update collection", zap.Error(err), zap.String("collection_id", collectionID))
		return nil, fmt.Errorf("update collection: %w", err)
	}

	resp := response.CollectionToResponse(collection)
	return &resp, nil
}

func (s *collectionService) Delete(ctx context.Context, collectionID string) error {
	id, err := parseID(collectionID, "collection id")
	if err != nil {
		return err
	}

	if err := s.collectionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("collection")
		}
		s.log.Error("Failed to delete collection", zap.Error(err), zap.String("collection_id", collectionID))
		return fmt.Errorf("delete collection: %w", err)
	}

	s.log.Info("Collection deleted", zap.String("collection_id", collectionID))
	return nil
}
