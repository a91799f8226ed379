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
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContentService interface {
	Create(ctx context.Context, req *request.ContentRequest) (uuid.UUID, error)
	Update(ctx context.Context, contentID string, req *request.ContentUpdateRequest) error
	Delete(ctx context.Context, contentID string) error
	GetAll(ctx context.Context, req *request.ContentQuery) (*response.PaginatedResponse[response.ContentResponse], error)
	GetDetails(ctx context.Context, contentID string) (*response.ContentDetailResponse, error)
}

type contentService struct {
	repo   *repository.Repository
	images media.ImageService
	videos media.VideoService
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewContentService(
	repo *repository.Repository,
	images media.ImageService,
	videos media.VideoService,
	config *utils.Config,
	log *zap.Logger,
) ContentService {
	return &contentService{
		repo:   repo,
		images: images,
		videos: videos,
		config: config,
		log:    log.With(zap.String("service", "content")),
		now:    time.Now,
	}
}

// contentRefs are the parsed and verified references of a create/update request.
type contentRefs struct {
	contentType   entity.ContentType
	franchiseID   *uuid.UUID
	genreIDs      []uuid.UUID
	collectionIDs []uuid.UUID
}

// resolveRefs checks type, franchise, genres and collections, reporting every bad field at once.
// Nil id lists are left nil so updates can tell "absent" from "empty".
func (s *contentService) resolveRefs(ctx context.Context, typ, franchiseID string, genreIDs, collectionIDs *[]string) (*contentRefs, error) {
	refs := &contentRefs{}
	fields := fieldErrors{}

	contentType, ok := entity.ParseContentType(typ)
	if !ok {
		fields.add("type", "Must be Movie or Series")
	}
	refs.contentType = contentType

	if franchiseID != "" {
		id, err := uuid.Parse(franchiseID)
		if err != nil {
			fields.add("franchiseId", "Invalid franchise id")
		} else {
			franchise, err := s.repo.Franchise.FindByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("find franchise: %w", err)
			}
			if franchise == nil {
				fields.add("franchiseId", "Franchise does not exist")
			}
			refs.franchiseID = &id
		}
	}

	if genreIDs != nil {
		ids, err := utils.ParseUUIDList(*genreIDs)
		if err != nil {
			fields.add("genreIds", "Invalid genre id")
		}
		for _, id := range ids {
			genre, err := s.repo.Genre.FindByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("find genre: %w", err)
			}
			if genre == nil {
				fields.add("genreIds", fmt.Sprintf("Genre %s does not exist", id))
			}
		}
		refs.genreIDs = ids
		if refs.genreIDs == nil {
			refs.genreIDs = []uuid.UUID{}
		}
	}

	if collectionIDs != nil {
		ids, err := utils.ParseUUIDList(*collectionIDs)
		if err != nil {
			fields.add("collectionIds", "Invalid collection id")
		}
		for _, id := range ids {
			collection, err := s.repo.Collection.FindByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("find collection: %w", err)
			}
			if collection == nil {
				fields.add("collectionIds", fmt.Sprintf("Collection %s does not exist", id))
			}
		}
		refs.collectionIDs = ids
		if refs.collectionIDs == nil {
			refs.collectionIDs = []uuid.UUID{}
		}
	}

	if err := fields.err(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *contentService) posterOptions() media.ImageOptions {
	return media.ImageOptions{Folder: "posters", MaxWidth: s.config.Media.PosterWidth, MaxHeight: s.config.Media.PosterHeight}
}

func (s *contentService) backdropOptions() media.ImageOptions {
	return media.ImageOptions{Folder: "backdrops", MaxWidth: s.config.Media.BackdropWidth, MaxHeight: s.config.Media.BackdropHeight}
}

func checkVideoFile(file *request.File) error {
	if file != nil && !media.IsVideoFile(file.Filename) {
		return newValidationError("video", "Unsupported video format")
	}
	return nil
}

func (s *contentService) Create(ctx context.Context, req *request.ContentRequest) (uuid.UUID, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Create content validation failed", zap.Error(err))
		return uuid.Nil, err
	}
	if err := checkVideoFile(req.Video); err != nil {
		return uuid.Nil, err
	}

	// 2. Check references
	refs, err := s.resolveRefs(ctx, req.Type, req.FranchiseID, &req.GenreIDs, &req.CollectionIDs)
	if err != nil {
		return uuid.Nil, err
	}

	// 3. Upload media, any failure removes what was already stored
	uploads := newUploadBatch(s.images, s.videos, s.log)

	posterURL, err := uploads.image(ctx, "poster", req.Poster, s.posterOptions())
	if err != nil {
		uploads.rollback()
		return uuid.Nil, err
	}
	backdropURL, err := uploads.image(ctx, "backdrop", req.Backdrop, s.backdropOptions())
	if err != nil {
		uploads.rollback()
		return uuid.Nil, err
	}
	var videoURL string
	if req.Video != nil {
		if videoURL, err = uploads.video(ctx, "video", req.Video); err != nil {
			uploads.rollback()
			return uuid.Nil, err
		}
	}

	// 4. Persist
	now := s.now()
	content := &entity.Content{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		PosterURL:      posterURL,
		BackdropURL:    backdropURL,
		VideoURL:       videoURL,
		Rating:         req.Rating,
		AgeLimit:       req.AgeLimit,
		ReleaseYear:    req.ReleaseYear,
		Type:           refs.contentType,
		FranchiseID:    refs.franchiseID,
		FranchiseOrder: req.FranchiseOrder,
	}

	if err := s.repo.Content.Create(ctx, content); err != nil {
		uploads.rollback()
		s.log.Error("Failed to create content", zap.Error(err), zap.String("title", content.Title))
		return uuid.Nil, fmt.Errorf("create content: %w", err)
	}

	// 5. Attach genres and collections
	if err := s.attach(ctx, content.ID, refs); err != nil {
		if delErr := s.repo.Content.Delete(context.WithoutCancel(ctx), content.ID); delErr != nil {
			s.log.Error("Failed to remove partially created content", zap.Error(delErr), zap.String("content_id", content.ID.String()))
		}
		uploads.rollback()
		return uuid.Nil, err
	}

	s.log.Info("Content created",
		zap.String("content_id", content.ID.String()),
		zap.String("title", content.Title),
		zap.Int("genres", len(refs.genreIDs)))

	return content.ID, nil
}

func (s *contentService) attach(ctx context.Context, contentID uuid.UUID, refs *contentRefs) error {
	if refs.genreIDs != nil {
		if err := s.repo.ContentGenre.ReplaceForContent(ctx, contentID, refs.genreIDs); err != nil {
			s.log.Error("Failed to attach genres", zap.Error(err), zap.String("content_id", contentID.String()))
			if errors.Is(err, repository.ErrReferenced) {
				return newValidationError("genreIds", "Genre does not exist")
			}
			return fmt.Errorf("attach genres: %w", err)
		}
	}
	if refs.collectionIDs != nil {
		if err := s.repo.ContentCollection.ReplaceForContent(ctx, contentID, refs.collectionIDs); err != nil {
			s.log.Error("Failed to attach collections", zap.Error(err), zap.String("content_id", contentID.String()))
			if errors.Is(err, repository.ErrReferenced) {
				return newValidationError("collectionIds", "Collection does not exist")
			}
			return fmt.Errorf("attach collections: %w", err)
		}
	}
	return nil
}

func (s *contentService) load(ctx context.Context, contentID string) (*entity.Content, error) {
	id, err := parseID(contentID, "content id")
	if err != nil {
		return nil, err
	}

	content, err := s.repo.Content.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find content", zap.Error(err), zap.String("content_id", contentID))
		return nil, fmt.Errorf("find content: %w", err)
	}
	if content == nil {
		return nil, notFound("content")
	}
	return content, nil
}

func (s *contentService) Update(ctx context.Context, contentID string, req *request.ContentUpdateRequest) error {
	// 1. Validate input
	if err := validate(req); err != nil {
		return err
	}
	if err := checkVideoFile(req.Video); err != nil {
		return err
	}

	content, err := s.load(ctx, contentID)
	if err != nil {
		return err
	}

	// 2. Check references
	refs, err := s.resolveRefs(ctx, req.Type, req.FranchiseID, req.GenreIDs, req.CollectionIDs)
	if err != nil {
		return err
	}

	// 3. Upload replacements
	uploads := newUploadBatch(s.images, s.videos, s.log)
	var replacedImages, replacedVideos []string

	if req.Poster != nil {
		path, err := uploads.image(ctx, "poster", req.Poster, s.posterOptions())
		if err != nil {
			uploads.rollback()
			return err
		}
		replacedImages = append(replacedImages, content.PosterURL)
		content.PosterURL = path
	}
	if req.Backdrop != nil {
		path, err := uploads.image(ctx, "backdrop", req.Backdrop, s.backdropOptions())
		if err != nil {
			uploads.rollback()
			return err
		}
		replacedImages = append(replacedImages, content.BackdropURL)
		content.BackdropURL = path
	}
	if req.Video != nil {
		path, err := uploads.video(ctx, "video", req.Video)
		if err != nil {
			uploads.rollback()
			return err
		}
		replacedVideos = append(replacedVideos, content.VideoURL)
		content.VideoURL = path
	}

	// 4. Apply and save
	content.Title = strings.TrimSpace(req.Title)
	content.Description = req.Description
	content.ReleaseYear = req.ReleaseYear
	content.AgeLimit = req.AgeLimit
	content.Rating = req.Rating
	content.Type = refs.contentType
	content.FranchiseID = refs.franchiseID
	content.FranchiseOrder = req.FranchiseOrder
	content.UpdatedAt = s.now()

	if err := s.repo.Content.Update(ctx, content); err != nil {
		uploads.rollback()
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("content")
		}
		s.log.Error("Failed to update content", zap.Error(err), zap.String("content_id", contentID))
		return fmt.Errorf("update content: %w", err)
	}

	// 5. Replace genre/collection sets when given
	if err := s.attach(ctx, content.ID, refs); err != nil {
		return err
	}

	// 6. Old files are no longer referenced
	removeFiles(ctx, s.log, s.images, s.videos, replacedImages, replacedVideos)

	s.log.Info("Content updated", zap.String("content_id", contentID))
	return nil
}

func (s *contentService) Delete(ctx context.Context, contentID string) error {
	content, err := s.load(ctx, contentID)
	if err != nil {
		return err
	}

	// 1. Collect episode videos before the cascade removes the rows
	episodes, err := s.repo.Episode.FindByContentID(ctx, content.ID)
	if err != nil {
		s.log.Error("Failed to list episodes", zap.Error(err), zap.String("content_id", contentID))
		return fmt.Errorf("list episodes: %w", err)
	}

	// 2. Delete, episodes/ratings/links cascade
	if err := s.repo.Content.Delete(ctx, content.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("content")
		}
		s.log.Error("Failed to delete content", zap.Error(err), zap.String("content_id", contentID))
		return fmt.Errorf("delete content: %w", err)
	}

	// 3. Best-effort file cleanup
	videos := []string{content.VideoURL}
	for _, episode := range episodes {
		videos = append(videos, episode.VideoURL)
	}
	removeFiles(ctx, s.log, s.images, s.videos, []string{content.PosterURL, content.BackdropURL}, videos)

	s.log.Info("Content deleted",
		zap.String("content_id", contentID),
		zap.Int("episodes", len(episodes)))
	return nil
}

func (s *contentService) filter(req *request.ContentQuery) (entity.ContentFilter, error) {
	filter := entity.ContentFilter{
		ReleaseYear: req.Year,
		Search:      strings.TrimSpace(req.Search),
	}
	fields := fieldErrors{}

	if req.Type != "" {
		t, ok := entity.ParseContentType(req.Type)
		if !ok {
			fields.add("type", "Must be Movie or Series")
		}
		filter.Type = t
	}

	parse := func(value, field string) *uuid.UUID {
		if value == "" {
			return nil
		}
		id, err := uuid.Parse(value)
		if err != nil {
			fields.add(field, "Invalid id")
			return nil
		}
		return &id
	}
	filter.GenreID = parse(req.GenreID, "genreId")
	filter.CollectionID = parse(req.CollectionID, "collectionId")
	filter.FranchiseID = parse(req.FranchiseID, "franchiseId")

	return filter, fields.err()
}

func (s *contentService) GetAll(ctx context.Context, req *request.ContentQuery) (*response.PaginatedResponse[response.ContentResponse], error) {
	// 1. Defaults and validation
	normalizePage(&req.PaginatedRequest)
	if err := validate(req); err != nil {
		return nil, err
	}
	filter, err := s.filter(req)
	if err != nil {
		return nil, err
	}

	// 2. Query page and total
	contents, err := s.repo.Content.FindAll(ctx, req.Offset(), req.Limit(), filter)
	if err != nil {
		s.log.Error("Failed to list content", zap.Error(err))
		return nil, fmt.Errorf("list content: %w", err)
	}

	total, err := s.repo.Content.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count content", zap.Error(err))
		return nil, fmt.Errorf("count content: %w", err)
	}

	// 3. Build response
	data, err := s.withGenreNames(ctx, contents)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *contentService) withGenreNames(ctx context.Context, contents []*entity.Content) ([]response.ContentResponse, error) {
	data := make([]response.ContentResponse, 0, len(contents))
	for _, content := range contents {
		genres, err := s.repo.Genre.FindByContentID(ctx, content.ID)
		if err != nil {
			s.log.Error("Failed to load genres", zap.Error(err), zap.String("content_id", content.ID.String()))
			return nil, fmt.Errorf("load genres: %w", err)
		}
		names := make([]string, len(genres))
		for i, g := range genres {
			names[i] = g.Name
		}
		data = append(data, response.ContentToResponse(content, names))
	}
	return data, nil
}

func (s *contentService) GetDetails(ctx context.Context, contentID string) (*response.ContentDetailResponse, error) {
	content, err := s.load(ctx, contentID)
	if err != nil {
		return nil, err
	}

	genres, err := s.repo.Genre.FindByContentID(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	collections, err := s.repo.Collection.FindByContentID(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	var franchise *entity.Franchise
	if content.FranchiseID != nil {
		if franchise, err = s.repo.Franchise.FindByID(ctx, *content.FranchiseID); err != nil {
			return nil, fmt.Errorf("load franchise: %w", err)
		}
	}

	episodes, err := s.repo.Episode.FindByContentID(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("load episodes: %w", err)
	}

	_, ratingCount, err := s.repo.Rating.GetContentRatingStats(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("load rating stats: %w", err)
	}

	detail := response.ContentToDetailResponse(content, genres, collections, franchise, episodes, ratingCount)
	return &detail, nil
}
