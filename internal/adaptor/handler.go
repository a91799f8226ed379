package adaptor

import (
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Content      *ContentHandler
	Episode      *EpisodeHandler
	Franchise    *FranchiseHandler
	Genre        *GenreHandler
	Collection   *CollectionHandler
	Subscription *SubscriptionHandler
	Rating       *RatingHandler
	Discover     *DiscoverHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	maxUpload := config.Media.MaxUploadMB << 20

	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, maxUpload, log),
		Content:      NewContentHandler(service.Content, maxUpload, log),
		Episode:      NewEpisodeHandler(service.Episode, maxUpload, log),
		Franchise:    NewFranchiseHandler(service.Franchise, log),
		Genre:        NewGenreHandler(service.Genre, log),
		Collection:   NewCollectionHandler(service.Collection, log),
		Subscription: NewSubscriptionHandler(service.Subscription, log),
		Rating:       NewRatingHandler(service.Rating, log),
		Discover:     NewDiscoverHandler(service.Discover, log),
	}
}
