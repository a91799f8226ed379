package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"streaming-catalog/internal/tmdb"

	"go.uber.org/zap"
)

// DiscoverService proxies the metadata provider so its token never reaches the browser.
type DiscoverService interface {
	List(ctx context.Context, list, media string, page int) (json.RawMessage, error)
	Search(ctx context.Context, media, query string, page int) (json.RawMessage, error)
	Details(ctx context.Context, media, id string) (json.RawMessage, error)
}

type discoverService struct {
	provider MetadataProvider
	log      *zap.Logger
}

func NewDiscoverService(provider MetadataProvider, log *zap.Logger) DiscoverService {
	return &discoverService{
		provider: provider,
		log:      log.With(zap.String("service", "discover")),
	}
}

func mediaOrDefault(media string) string {
	if media == "" {
		return tmdb.MediaMovie
	}
	return strings.ToLower(media)
}

func (s *discoverService) ready() error {
	if !s.provider.Enabled() {
		return s.translate(tmdb.ErrDisabled)
	}
	return nil
}

func (s *discoverService) List(ctx context.Context, list, media string, page int) (json.RawMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	media = mediaOrDefault(media)
	if !tmdb.IsSupported(list, media) {
		return nil, newValidationError("list", "Unknown list or media type")
	}
	body, err := s.provider.List(ctx, list, media, page)
	return body, s.translate(err)
}

func (s *discoverService) Search(ctx context.Context, media, query string, page int) (json.RawMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newValidationError("query", "This field is required")
	}
	body, err := s.provider.Search(ctx, mediaOrDefault(media), query, page)
	return body, s.translate(err)
}

func (s *discoverService) Details(ctx context.Context, media, id string) (json.RawMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: invalid id", ErrInvalidInput)
	}
	body, err := s.provider.Details(ctx, mediaOrDefault(media), n)
	return body, s.translate(err)
}

func (s *discoverService) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tmdb.ErrDisabled):
		return fmt.Errorf("metadata provider is not configured: %w", ErrUnavailable)
	case errors.Is(err, tmdb.ErrUnsupported):
		return newValidationError("media", "Must be movie or tv")
	case errors.Is(err, tmdb.ErrNotFound):
		return notFound("title")
	case errors.Is(err, context.Canceled):
		return err
	}
	s.log.Warn("Metadata provider request failed", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
