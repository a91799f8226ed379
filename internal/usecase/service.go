package usecase

import (
	"context"
	"encoding/json"
	"time"

	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/mail"
	"streaming-catalog/internal/media"
	"streaming-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID uuid.UUID, name string, roles []string) (string, time.Time, error)
}

// MetadataProvider is the external movie/TV metadata source behind the discover endpoints.
type MetadataProvider interface {
	Enabled() bool
	List(ctx context.Context, list, media string, page int) (json.RawMessage, error)
	Search(ctx context.Context, media, query string, page int) (json.RawMessage, error)
	Details(ctx context.Context, media string, id int) (json.RawMessage, error)
}

// Dependencies are the non-database collaborators services need.
type Dependencies struct {
	Tokens   TokenIssuer
	Images   media.ImageService
	Videos   media.VideoService
	Mailer   mail.Mailer
	Metadata MetadataProvider
}

type Service struct {
	Auth         AuthService
	User         UserService
	Content      ContentService
	Episode      EpisodeService
	Franchise    FranchiseService
	Genre        GenreService
	Collection   CollectionService
	Subscription SubscriptionService
	Rating       RatingService
	Discover     DiscoverService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, deps.Tokens, deps.Mailer, config, log),
		User:         NewUserService(repo, deps.Images, config, log),
		Content:      NewContentService(repo, deps.Images, deps.Videos, config, log),
		Episode:      NewEpisodeService(repo, deps.Videos, log),
		Franchise:    NewFranchiseService(repo, log),
		Genre:        NewGenreService(repo.Genre, log),
		Collection:   NewCollectionService(repo.Collection, log),
		Subscription: NewSubscriptionService(repo, log),
		Rating:       NewRatingService(repo, log),
		Discover:     NewDiscoverService(deps.Metadata, log),
	}
}
